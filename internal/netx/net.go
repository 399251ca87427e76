// Package netx uploads photo payloads to presigned object-storage URLs.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPDoer is the part of *http.Client used for uploads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DetectContentType sniffs an image MIME type, defaulting to
// application/octet-stream.
func DetectContentType(b []byte) string {
	ct := http.DetectContentType(b)
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

// UploadToPresignedURL PUTs body to url. Any 2xx response counts as success.
func UploadToPresignedURL(ctx context.Context, c HTTPDoer, url string, body []byte, contentType string) error {
	if c == nil {
		c = http.DefaultClient
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
