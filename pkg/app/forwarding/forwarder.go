package forwarding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rantcrypto/cmcgate/pkg/config"
	"github.com/rantcrypto/cmcgate/pkg/domain/endpoint"
	domain "github.com/rantcrypto/cmcgate/pkg/domain/errors"
	"github.com/rantcrypto/cmcgate/pkg/infra/httpx"
	"github.com/rantcrypto/cmcgate/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	acceptEncoding = "deflate, gzip"
	unreachableMsg = "The upstream service could not be reached"
)

// Request describes one outbound call. RawQuery is the caller's query string
// and is sent as is. The API key never travels in a Request.
type Request struct {
	Endpoint endpoint.Endpoint
	RawQuery string
	TraceID  string
}

// Response is a successful upstream answer with its body already decoded.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

//go:generate mockery --name=Forwarder --dir=. --output=./mocks --filename=forwarder_mock.go --case=underscore --with-expecter
type Forwarder interface {
	Forward(ctx context.Context, req Request) (*Response, error)
}

type forwarder struct {
	cfg     config.UpstreamConfig
	client  httpx.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
	scrub   *strings.Replacer
}

func NewForwarder(
	cfg config.UpstreamConfig,
	client httpx.Client,
	breaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) Forwarder {
	if breaker == nil {
		breaker = httpx.NewNoopCircuitBreaker()
	}
	scrub := strings.NewReplacer()
	if cfg.APIKey != "" {
		scrub = strings.NewReplacer(cfg.APIKey, "[REDACTED]")
	}
	return &forwarder{
		cfg:     cfg,
		client:  client,
		breaker: breaker,
		logger:  logger,
		scrub:   scrub,
	}
}

// upstreamFailure marks outcomes that count against the circuit breaker.
type upstreamFailure struct {
	status int
	err    error
}

func (u *upstreamFailure) Error() string {
	if u.err != nil {
		return u.err.Error()
	}
	return fmt.Sprintf("upstream returned status %d", u.status)
}

func (u *upstreamFailure) Unwrap() error {
	return u.err
}

func (f *forwarder) Forward(ctx context.Context, req Request) (*Response, error) {
	if f.cfg.APIKey == "" {
		return nil, domain.MissingAPIKey()
	}

	log := f.logger.WithFields(logrus.Fields{
		"endpoint": req.Endpoint.Key(),
		"trace_id": req.TraceID,
	})

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	httpReq, err := f.buildRequest(ctx, req)
	if err != nil {
		log.WithError(err).Error("failed to build upstream request")
		return nil, domain.Internal(unreachableMsg, err)
	}

	var (
		status      int
		contentType string
		encoding    string
		body        []byte
	)
	start := time.Now()
	err = f.breaker.Execute(func() error {
		resp, err := f.client.Do(httpReq)
		if err != nil {
			return &upstreamFailure{err: err}
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		contentType = resp.Header.Get("Content-Type")
		encoding = resp.Header.Get("Content-Encoding")
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &upstreamFailure{status: status, err: fmt.Errorf("failed to read upstream body: %w", err)}
		}
		if status >= http.StatusInternalServerError {
			return &upstreamFailure{status: status}
		}
		return nil
	})
	prometheus.ObserveUpstream(req.Endpoint.Key(), status, time.Since(start))

	if err != nil && !isStatusFailure(err) {
		if httpx.IsOpen(err) {
			log.Warn("circuit breaker open, upstream call skipped")
			return nil, domain.Internal(unreachableMsg, err)
		}
		log.WithError(f.scrubError(err)).Error("upstream call failed")
		return nil, domain.Internal(unreachableMsg, f.scrubError(err))
	}

	if len(body) > 0 {
		decoded, _, decErr := httpx.DecodeChain(encoding, body)
		if decErr != nil {
			log.WithError(decErr).WithField("content_encoding", encoding).Error("failed to decode upstream body")
			return nil, domain.Internal(unreachableMsg, decErr)
		}
		body = decoded
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		apiErr := f.classify(status, body)
		log.WithFields(logrus.Fields{
			"upstream_status": status,
			"error_code":      apiErr.Code,
		}).Warn("upstream rejected request")
		return nil, apiErr
	}

	if contentType == "" {
		contentType = "application/json"
	}
	return &Response{
		StatusCode:  http.StatusOK,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (f *forwarder) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := f.cfg.BaseURL + req.Endpoint.Path
	if req.RawQuery != "" {
		target += "?" + req.RawQuery
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Endpoint.Method, target, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", acceptEncoding)
	httpReq.Header.Set(f.cfg.APIKeyHeader, f.cfg.APIKey)
	if f.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	if req.TraceID != "" {
		httpReq.Header.Set("X-Trace-ID", req.TraceID)
	}
	return httpReq, nil
}

// classify turns a non-2xx upstream answer into the caller-facing error using
// the upstream status object when it can be parsed.
func (f *forwarder) classify(status int, body []byte) *domain.APIError {
	var (
		code    int
		message string
	)
	var p fastjson.Parser
	if v, err := p.ParseBytes(body); err == nil {
		if st := v.Get("status"); st != nil {
			code = st.GetInt("error_code")
			message = string(st.GetStringBytes("error_message"))
		}
	}
	return domain.FromStatus(status, code, f.scrub.Replace(message))
}

func (f *forwarder) scrubError(err error) error {
	msg := err.Error()
	scrubbed := f.scrub.Replace(msg)
	if scrubbed == msg {
		return err
	}
	return errors.New(scrubbed)
}

// isStatusFailure reports whether err only signals a 5xx answer that still
// carries a body worth classifying.
func isStatusFailure(err error) bool {
	var uf *upstreamFailure
	return errors.As(err, &uf) && uf.err == nil
}
