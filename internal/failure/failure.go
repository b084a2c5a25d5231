// Package failure normalizes errors raised while serving a request into a
// small set of variants and maps each variant to an HTTP status and a
// client-facing message.
package failure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/neexbeast/country-calendar/internal/upstream"
)

// ErrUnknown marks an error whose shape carries nothing usable, such as a
// recovered panic with a non-error value.
var ErrUnknown = errors.New("unknown error")

// Kind tags a Failure.
type Kind int

const (
	// KindUnknown is an error of unrecognized shape.
	KindUnknown Kind = iota
	// KindHTTP is an upstream response with a non-2xx status.
	KindHTTP
	// KindLocal is any other error: network, timeout, decoding.
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Failure is the classified form of an error.
type Failure struct {
	Kind Kind
	// HTTP is set when Kind is KindHTTP.
	HTTP *upstream.HTTPError
	// Message is the underlying error text for KindHTTP and KindLocal.
	// For KindLocal it is the root cause only; log the original error for
	// the full chain.
	Message string
}

// Classify sorts err into one of the Failure variants.
func Classify(err error) Failure {
	if err == nil || errors.Is(err, ErrUnknown) {
		return Failure{Kind: KindUnknown}
	}

	var httpErr *upstream.HTTPError
	if errors.As(err, &httpErr) {
		return Failure{Kind: KindHTTP, HTTP: httpErr, Message: httpErr.Error()}
	}

	return Failure{Kind: KindLocal, Message: rootCause(err).Error()}
}

// rootCause strips the wrapping added on the way up so callers see the
// failure itself rather than internal call sites and upstream URLs. For a
// transport failure that is the *url.Error's cause.
func rootCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// Policy tunes how a Failure is rendered for a given endpoint.
type Policy struct {
	// DescribeNotFound replaces the message of an upstream 404 with a
	// description of the request that failed.
	DescribeNotFound bool
	// Fallback is the message used when nothing better is known.
	Fallback string
}

// Resolve maps f to the status code and message sent to the caller.
func (f Failure) Resolve(p Policy) (int, string) {
	switch f.Kind {
	case KindHTTP:
		status := f.HTTP.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if p.DescribeNotFound && status == http.StatusNotFound && f.HTTP.Request != nil {
			return status, DescribeRequest(f.HTTP.Request, status)
		}
		if msg := f.HTTP.Message(); msg != "" {
			return status, msg
		}
		return status, firstNonEmpty(f.Message, p.Fallback)
	case KindLocal:
		return http.StatusInternalServerError, firstNonEmpty(f.Message, p.Fallback)
	default:
		return http.StatusInternalServerError, p.Fallback
	}
}

// DescribeRequest renders "Request METHOD URL [with data JSON] failed with
// status N". The data clause is present only when the request had a body.
func DescribeRequest(r *upstream.Request, status int) string {
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = "REQUEST"
	}

	if data := compactJSON(r.Body); data != "" {
		return fmt.Sprintf("Request %s %s with data %s failed with status %d", method, r.URL, data, status)
	}
	return fmt.Sprintf("Request %s %s failed with status %d", method, r.URL, status)
}

// compactJSON encodes v without HTML escaping. Bodies that encode to
// nothing meaningful (nil, null, "") yield "".
func compactJSON(v any) string {
	if v == nil {
		return ""
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}

	out := strings.TrimRight(buf.String(), "\n")
	if out == "null" || out == `""` {
		return ""
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
