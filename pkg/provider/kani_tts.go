package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// KaniTTSProvider is the client for the local KaniTTS inference server.
// The server writes a wav file and returns its URL; we fetch the file and
// hand back raw bytes.
type KaniTTSProvider struct {
	baseURL string
	client  *http.Client
}

func NewKaniTTSProvider(baseURL string) *KaniTTSProvider {
	return &KaniTTSProvider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (p *KaniTTSProvider) Name() string {
	return "kani"
}

type kaniTTSRequest struct {
	Text string `json:"text"`
}

type kaniTTSResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
	URL    string `json:"url"`
}

// Ping probes the synthesis server. Used once at engine load to decide
// whether the primary engine is usable at all.
func (p *KaniTTSProvider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("kani server unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kani server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (p *KaniTTSProvider) Synthesize(ctx context.Context, text string, opts *TTSOptions) ([]byte, error) {
	reqBody, err := json.Marshal(kaniTTSRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/tts", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TTS request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var ttsResp kaniTTSResponse
	if err := json.NewDecoder(resp.Body).Decode(&ttsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if ttsResp.URL == "" {
		return nil, fmt.Errorf("no audio URL in response")
	}

	return p.fetchAudio(ctx, ttsResp.URL)
}

func (p *KaniTTSProvider) fetchAudio(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio fetch failed with status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio file")
	}
	return audio, nil
}
