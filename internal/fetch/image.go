package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Telegram rejects photos above 10 MB anyway, so cap reads there.
const maxImageBytes = 10 << 20

// ImageClient downloads promotional images for publishing.
type ImageClient struct {
	httpClient *http.Client
}

func NewImageClient(timeout time.Duration) *ImageClient {
	return &ImageClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ImageClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image body")
	}

	return data, nil
}
