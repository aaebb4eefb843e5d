package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// DecodeChain decodes body according to a Content-Encoding header value.
// Chained encodings ("gzip, br") are undone right to left. For deflate both
// zlib-wrapped and raw streams are accepted. It reports whether the body
// changed.
func DecodeChain(contentEncoding string, body []byte) ([]byte, bool, error) {
	if strings.TrimSpace(contentEncoding) == "" {
		return body, false, nil
	}
	compressions := strings.Split(contentEncoding, ",")
	changed := false
	for i := len(compressions) - 1; i >= 0; i-- {
		var err error
		switch strings.TrimSpace(strings.ToLower(compressions[i])) {
		case "br":
			body, err = io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		case "gzip", "x-gzip":
			body, err = decodeGzip(body)
		case "zstd":
			body, err = decodeZstd(body)
		case "deflate":
			body, err = decodeDeflate(body)
		case "compress", "identity", "":
			continue
		default:
			return nil, false, fmt.Errorf("unsupported content-encoding: %q", compressions[i])
		}
		if err != nil {
			return nil, false, err
		}
		changed = true
	}
	return body, changed, nil
}

func decodeGzip(body []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(gr)
	if cerr := gr.Close(); err == nil {
		err = cerr
	}
	return out, err
}

func decodeZstd(body []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func decodeDeflate(body []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		out, err := io.ReadAll(zr)
		if cerr := zr.Close(); err == nil {
			err = cerr
		}
		return out, err
	}
	fr := flate.NewReader(bytes.NewReader(body))
	out, err := io.ReadAll(fr)
	if cerr := fr.Close(); err == nil {
		err = cerr
	}
	return out, err
}
