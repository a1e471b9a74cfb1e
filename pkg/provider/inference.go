package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// The perception models (Whisper, YOLO, BLIP, EasyOCR) run in a local
// inference sidecar. Each provider here is a thin client posting base64 media
// and reading back a JSON result.

type inferenceClient struct {
	baseURL string
	client  *http.Client
}

func newInferenceClient(baseURL string) inferenceClient {
	return inferenceClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type inferenceRequest struct {
	Data string `json:"data"` // base64-encoded media
}

func (c inferenceClient) post(ctx context.Context, path string, media []byte, out interface{}) error {
	reqBody, err := json.Marshal(inferenceRequest{
		Data: base64.StdEncoding.EncodeToString(media),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("inference request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Whisper speech-to-text sidecar client.
type WhisperSTTProvider struct {
	inferenceClient
}

func NewWhisperSTTProvider(baseURL string) *WhisperSTTProvider {
	return &WhisperSTTProvider{newInferenceClient(baseURL)}
}

func (p *WhisperSTTProvider) Name() string {
	return "whisper"
}

func (p *WhisperSTTProvider) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var result struct {
		Text string `json:"text"`
	}
	if err := p.post(ctx, "/transcribe", audio, &result); err != nil {
		return "", err
	}
	return result.Text, nil
}

// YOLO object-detection sidecar client.
type YOLODetectorProvider struct {
	inferenceClient
}

func NewYOLODetectorProvider(baseURL string) *YOLODetectorProvider {
	return &YOLODetectorProvider{newInferenceClient(baseURL)}
}

func (p *YOLODetectorProvider) Name() string {
	return "yolo"
}

func (p *YOLODetectorProvider) Detect(ctx context.Context, image []byte) ([]string, error) {
	var result struct {
		Objects []string `json:"objects"`
	}
	if err := p.post(ctx, "/detect", image, &result); err != nil {
		return nil, err
	}
	return result.Objects, nil
}

// BLIP image-captioning sidecar client.
type BLIPCaptionProvider struct {
	inferenceClient
}

func NewBLIPCaptionProvider(baseURL string) *BLIPCaptionProvider {
	return &BLIPCaptionProvider{newInferenceClient(baseURL)}
}

func (p *BLIPCaptionProvider) Name() string {
	return "blip"
}

func (p *BLIPCaptionProvider) Describe(ctx context.Context, image []byte) (string, error) {
	var result struct {
		Caption string `json:"caption"`
	}
	if err := p.post(ctx, "/caption", image, &result); err != nil {
		return "", err
	}
	return result.Caption, nil
}

// EasyOCR text-reading sidecar client.
type EasyOCRProvider struct {
	inferenceClient
}

func NewEasyOCRProvider(baseURL string) *EasyOCRProvider {
	return &EasyOCRProvider{newInferenceClient(baseURL)}
}

func (p *EasyOCRProvider) Name() string {
	return "easyocr"
}

func (p *EasyOCRProvider) ReadText(ctx context.Context, image []byte) (string, error) {
	var result struct {
		Text string `json:"text"`
	}
	if err := p.post(ctx, "/read", image, &result); err != nil {
		return "", err
	}
	return result.Text, nil
}
