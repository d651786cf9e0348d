package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("medalfed.discovery")

// UserAgent is sent with every fetch so the request looks like a desktop
// browser to basic bot filters.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ErrHTTPStatus marks a TransportError caused by a non-success response.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// TransportError describes a failed fetch: a connection failure, a timeout,
// or a non-success status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP error: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DefaultHeaders returns the headers sent with a fetch: only the browser
// User-Agent.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": UserAgent,
	}
}

// Fetcher retrieves HTML documents with a single GET per call. It never
// retries.
type Fetcher struct {
	client *resty.Client
}

// NewFetcher creates a fetcher. A zero timeout leaves the transport default
// in place.
func NewFetcher(timeout time.Duration) *Fetcher {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Fetcher{client: client}
}

// Fetch performs the GET and returns the response body as text.
func (f *Fetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := f.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", &TransportError{URL: url, Err: err}
	}

	span.SetAttributes(attribute.Int("status", res.StatusCode()))
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return "", &TransportError{URL: url, StatusCode: res.StatusCode(), Err: ErrHTTPStatus}
	}

	return res.String(), nil
}
