package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const redacted = "[REDACTED]"

// RedactHook masks secrets (the upstream API key) in entry messages and
// string field values. It must be registered before any writing hook.
type RedactHook struct {
	replacer *strings.Replacer
}

func NewRedactHook(secrets ...string) *RedactHook {
	var pairs []string
	for _, s := range secrets {
		if s == "" {
			continue
		}
		pairs = append(pairs, s, redacted)
	}
	if len(pairs) == 0 {
		return &RedactHook{}
	}
	return &RedactHook{replacer: strings.NewReplacer(pairs...)}
}

func (h *RedactHook) Fire(entry *logrus.Entry) error {
	if h.replacer == nil {
		return nil
	}
	entry.Message = h.replacer.Replace(entry.Message)
	for k, v := range entry.Data {
		switch val := v.(type) {
		case string:
			entry.Data[k] = h.replacer.Replace(val)
		case error:
			entry.Data[k] = h.replacer.Replace(val.Error())
		}
	}
	return nil
}

func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
