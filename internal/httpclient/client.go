package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
)

// DefaultTimeout applies to every backend call unless configured otherwise
const DefaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of an error response is read for its detail
const maxErrorBody = 64 * 1024

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
	}
}

// Body is an encoded request body with its content type
type Body struct {
	ContentType string
	Data        []byte
}

// JSONBody encodes v as UTF-8 JSON.
func JSONBody(v interface{}) (*Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return &Body{ContentType: "application/json", Data: data}, nil
}

// MultipartBody builds a multipart/form-data body holding a single file part.
func MultipartBody(field, filename, contentType string, data []byte) (*Body, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write multipart part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &Body{ContentType: writer.FormDataContentType(), Data: buf.Bytes()}, nil
}

// Client sends single-attempt requests to the backend under /api/v1 and normalizes failures into *Error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewClient creates a backend client. baseURL is normalized (trailing slash and /api/v1 suffix removed).
func NewClient(baseURL string, timeout time.Duration, logger arbor.ILogger) (*Client, error) {
	normalized, err := common.NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Client{
		baseURL:    normalized,
		httpClient: NewDefaultHTTPClient(timeout),
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized backend root (without /api/v1)
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send performs one request. On 2xx the JSON response is decoded into out (when non-nil).
func (c *Client) Send(ctx context.Context, method, path string, body *Body, out interface{}) error {
	url := common.JoinAPIPath(c.baseURL, path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body.Data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Error{Kind: KindRequestFailed, Message: MessageUnreachable, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", body.ContentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientErr := transportError(ctx, err)
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Str("kind", string(clientErr.Kind)).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("Backend request failed")
		return clientErr
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, data)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(ctx, err) {
			return &Error{Kind: KindTimeout, Status: resp.StatusCode, Message: MessageTimeout, Err: err}
		}
		return &Error{
			Kind:    KindRequestFailed,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Respons server tidak valid: %v", err),
			Err:     err,
		}
	}

	return nil
}

func transportError(ctx context.Context, err error) *Error {
	if isTimeout(ctx, err) {
		return &Error{Kind: KindTimeout, Message: MessageTimeout, Err: err}
	}
	return &Error{Kind: KindRequestFailed, Message: MessageUnreachable, Err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
