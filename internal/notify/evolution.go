package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// EvolutionClient fala com a Evolution API (WhatsApp) por instância
type EvolutionClient struct {
	baseURL    string
	apiKey     string
	instance   string
	httpClient *http.Client
}

func NewEvolutionClient(baseURL, apiKey, instance string, timeout time.Duration) (*EvolutionClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("evolution api url is required")
	}
	if strings.TrimSpace(instance) == "" {
		return nil, errors.New("evolution instance is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &EvolutionClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		instance:   instance,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type evolutionSendRequest struct {
	Number      string               `json:"number"`
	TextMessage evolutionTextMessage `json:"textMessage"`
}

type evolutionTextMessage struct {
	Text string `json:"text"`
}

func (c *EvolutionClient) endpoint() string {
	return c.baseURL + "/message/sendText/" + url.PathEscape(c.instance)
}

func (c *EvolutionClient) SendText(ctx context.Context, phone, text string) error {
	if strings.TrimSpace(phone) == "" {
		return errors.New("missing recipient phone")
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("missing message text")
	}

	raw, err := json.Marshal(evolutionSendRequest{
		Number:      phone,
		TextMessage: evolutionTextMessage{Text: text},
	})
	if err != nil {
		return fmt.Errorf("evolution marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("evolution create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("evolution request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("evolution send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
