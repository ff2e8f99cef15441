// Package predict calls the remote classification backend.
// A request is a multipart POST of one image to {base}/predict; the response
// is a JSON top-K list.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// FieldName is the multipart field carrying the image.
const FieldName = "file"

// Path is appended to the base URL.
const Path = "/predict"

// Client posts images to a prediction backend.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

// New creates a Client. A zero timeout disables the per-request deadline.
func New(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger.With("system", "predict"),
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Predict sends data as the multipart field "file" to base+/predict.
// Non-2xx responses return *StatusError; malformed bodies wrap ErrDecode.
func (c *Client) Predict(ctx context.Context, base, filename, contentType string, data []byte) (*Prediction, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	target, err := predictURL(base)
	if err != nil {
		return nil, err
	}

	body, formType, err := encodeForm(filename, contentType, data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", formType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.logger.Info(
		"prediction response",
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &p, nil
}

func predictURL(base string) (string, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBase, base)
	}
	return base + Path, nil
}

func encodeForm(filename, contentType string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if filename == "" {
		filename = "upload"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldName, filename))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
