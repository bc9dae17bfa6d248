package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// ngrok needs a moment after startup before tunnels appear in its API.
	ngrokPollAttempts  = 10
	ngrokPollInterval  = 3 * time.Second
	ngrokClientTimeout = 5 * time.Second
)

// ngrokTunnelsResponse matches the /api/tunnels response from the ngrok local API.
type ngrokTunnelsResponse struct {
	Tunnels []ngrokTunnel `json:"tunnels"`
}

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

// detectNgrokURL polls the ngrok local API until a tunnel comes up and
// returns its public URL, preferring HTTPS. Telegram only delivers webhooks
// over HTTPS, so a plain tunnel is a last resort.
func detectNgrokURL(ctx context.Context, ngrokAPIBase string) (string, error) {
	client := &http.Client{Timeout: ngrokClientTimeout}

	var lastErr error
	for attempt := 1; attempt <= ngrokPollAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(ngrokPollInterval):
			}
		}

		tunnels, err := fetchNgrokTunnels(ctx, client, ngrokAPIBase)
		if err != nil {
			lastErr = err
			continue
		}

		for _, t := range tunnels {
			if t.Proto == "https" {
				return t.PublicURL, nil
			}
		}
		if len(tunnels) > 0 {
			return tunnels[0].PublicURL, nil
		}

		lastErr = fmt.Errorf("ngrok has no active tunnels")
	}

	return "", fmt.Errorf("ngrok tunnel not found after %d attempts: %w", ngrokPollAttempts, lastErr)
}

func fetchNgrokTunnels(ctx context.Context, client *http.Client, apiBase string) ([]ngrokTunnel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/api/tunnels", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ngrok API not reachable: %w", err)
	}
	defer resp.Body.Close()

	var out ngrokTunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode ngrok API response: %w", err)
	}
	return out.Tunnels, nil
}
