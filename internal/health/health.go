package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dayplan/internal/log"
)

var client = &http.Client{Timeout: 5 * time.Second}

// Ping sends a single GET to the configured health endpoint. The result is
// logged and nothing else: startup never blocks or fails on it.
func Ping(ctx context.Context, url string) {
	if url == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("health ping", err, "url", url)
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Error("health ping", err, "url", url)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		log.Error("health ping", fmt.Errorf("status %d", resp.StatusCode), "url", url)
		return
	}
	log.Debug("health ping ok", "url", url, "status", resp.StatusCode)
}
