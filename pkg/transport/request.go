package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/weave-ui/weave/internal/errors"
)

const jsonContentType = "application/json; charset=UTF-8"

// Request is a request under construction.
type Request struct {
	client  *Client
	method  Method
	url     string
	tries   int
	timeout time.Duration
	header  http.Header
	body    any
	hasBody bool
}

// Tries sets the retry budget: the request is attempted up to n+1 times.
func (r *Request) Tries(n int) *Request {
	if n >= 0 {
		r.tries = n
	}
	return r
}

// Timeout bounds each attempt.
func (r *Request) Timeout(d time.Duration) *Request {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// JSON sets the payload. Strings and byte slices are sent as they are;
// other values are encoded as JSON, or as query parameters for GET.
func (r *Request) JSON(body any) *Request {
	r.body, r.hasBody = body, body != nil
	return r
}

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// URL returns the request URL without query parameters added by JSON.
func (r *Request) URL() string { return r.url }

// Response is a completed HTTP exchange.
type Response struct {
	Status int
	Header http.Header
	Text   string
	// JSON is the decoded body for application/json responses. It is nil
	// when the body is absent or malformed.
	JSON any
}

// StatusError rejects requests answered with status 400 or above.
type StatusError struct {
	Method   Method
	URL      string
	Response *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("W402: %s %s: status %d", e.Method, e.URL, e.Response.Status)
}

// Unwrap returns the coded form of the rejection, so errors.HasCode and
// errors.FromError see W402.
func (e *StatusError) Unwrap() error {
	return errors.New("W402").WithDetailf("%s %s: status %d", e.Method, e.URL, e.Response.Status)
}

// Send performs the request in the background and returns its Deferred.
// Cancelling ctx aborts the request without further retries.
func (r *Request) Send(ctx context.Context) *Deferred {
	c := r.client
	target, payload, contentType, err := r.encode()
	if err != nil {
		return rejected(c.exec, "transport: %s %s: %w", r.method, r.url, err)
	}

	d := newDeferred(c.exec)
	go func() {
		resp, err := r.attempt(ctx, target, payload, contentType)
		if err != nil {
			d.reject(err)
			return
		}
		if resp.Status >= http.StatusBadRequest {
			d.reject(&StatusError{Method: r.method, URL: target, Response: resp})
			return
		}
		d.resolve(resp)
	}()
	return d
}

// attempt runs the request up to tries+1 times, retrying transport errors.
func (r *Request) attempt(ctx context.Context, target string, payload []byte, contentType string) (*Response, error) {
	c := r.client
	var lastErr error
	for i := 0; i <= r.tries; i++ {
		resp, err := r.do(ctx, target, payload, contentType)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		c.logger.Warn("request failed",
			"method", r.method,
			"url", target,
			"attempt", i+1,
			"of", r.tries+1,
			"error", err,
		)
	}
	e := errors.New("W401").
		WithDetailf("%s %s", r.method, target).
		Wrap(lastErr)
	switch {
	case ctx.Err() != nil:
		e.WithSuggestion("The request was cancelled before it completed.")
	case errors.Is(lastErr, context.DeadlineExceeded):
		e.WithSuggestion(fmt.Sprintf("Each attempt timed out after %s; raise the timeout or the number of tries.", r.timeout))
	}
	return nil, e
}

func (r *Request) do(ctx context.Context, target string, payload []byte, contentType string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, string(r.method), target, body)
	if err != nil {
		return nil, err
	}
	req.Header = r.header.Clone()
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := r.client.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	resp := &Response{
		Status: res.StatusCode,
		Header: res.Header,
		Text:   string(raw),
	}
	if isJSON(res.Header.Get("Content-Type")) && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &resp.JSON); err != nil {
			r.client.logger.Warn("malformed JSON response",
				"method", r.method,
				"url", target,
				"status", res.StatusCode,
				"error", err,
			)
			resp.JSON = nil
		}
	}
	return resp, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json"))
}

// encode returns the final URL, the body bytes and their content type.
func (r *Request) encode() (string, []byte, string, error) {
	if !r.hasBody {
		return r.url, nil, "", nil
	}
	switch b := r.body.(type) {
	case string:
		return r.url, []byte(b), "", nil
	case []byte:
		return r.url, b, "", nil
	}

	if r.method == MethodGet {
		q, err := queryParams(r.body)
		if err != nil {
			return "", nil, "", err
		}
		sep := "?"
		if strings.Contains(r.url, "?") {
			sep = "&"
		}
		if q == "" {
			return r.url, nil, "", nil
		}
		return r.url + sep + q, nil, "", nil
	}

	payload, err := json.Marshal(r.body)
	if err != nil {
		return "", nil, "", err
	}
	return r.url, payload, jsonContentType, nil
}

// queryParams flattens a JSON object into query parameters, nesting keys
// with brackets: {"a":{"b":1},"c":[2]} becomes a[b]=1&c[0]=2.
func queryParams(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("query parameters must be an object: %w", err)
	}

	var pairs []string
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		switch x := v.(type) {
		case map[string]any:
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(nestKey(prefix, k), x[k])
			}
		case []any:
			for i, e := range x {
				walk(nestKey(prefix, fmt.Sprint(i)), e)
			}
		case nil:
			pairs = append(pairs, url.QueryEscape(prefix)+"=")
		default:
			pairs = append(pairs, url.QueryEscape(prefix)+"="+url.QueryEscape(fmt.Sprint(x)))
		}
	}
	walk("", obj)
	return strings.Join(pairs, "&"), nil
}

func nestKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}
