package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

const maxResponseBody = 4 << 20

// APIError is a non-2xx answer from the hotel API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("hotel api: %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("hotel api: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// HotelAPI issues requests against the remote hotel REST API. The caller's
// session is attached to every request through an oauth2 transport.
type HotelAPI struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

// NewHotelAPI builds a client for baseURL. A nil transport means
// http.DefaultTransport.
func NewHotelAPI(baseURL string, timeout time.Duration, transport http.RoundTripper) *HotelAPI {
	return &HotelAPI{
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
		transport: transport,
	}
}

func (a *HotelAPI) client(sess *session.Session) *http.Client {
	return &http.Client{
		Timeout:   a.timeout,
		Transport: &oauth2.Transport{Source: sess, Base: a.transport},
	}
}

func (a *HotelAPI) do(ctx context.Context, sess *session.Session, method, path string, body interface{}) ([]byte, error) {
	if !sess.Active() {
		return nil, session.ErrSessionCleared
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client(sess).Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotel api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("hotel api: read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	return raw, nil
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// decodeList accepts a bare JSON array or an object wrapping the array under
// key or "data".
func decodeList(raw []byte, key string, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return err
	}
	for _, k := range []string{key, "data"} {
		if inner, ok := wrapper[k]; ok {
			return json.Unmarshal(inner, out)
		}
	}
	return fmt.Errorf("hotel api: response has no %q list", key)
}

// decodeObject accepts the object itself or the object wrapped under key or
// "data".
func decodeObject(raw []byte, key string, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return err
	}
	for _, k := range []string{key, "data"} {
		if inner, ok := wrapper[k]; ok && len(inner) > 0 && inner[0] == '{' {
			return json.Unmarshal(inner, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}
