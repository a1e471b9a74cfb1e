package provider

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	edgeTTSEndpoint     = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	edgeTrustedToken    = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeDefaultVoice    = "ru-RU-SvetlanaNeural"
	edgeAudioFormat     = "audio-24khz-48kbitrate-mono-mp3"
	edgeSynthesisWindow = 60 * time.Second
)

// EdgeTTSProvider is the always-available fallback speech engine. It speaks
// the Edge read-aloud websocket protocol: one config frame, one SSML frame,
// then binary frames whose payload after the "Path:audio" header is mp3 data.
type EdgeTTSProvider struct {
	voice string
}

func NewEdgeTTSProvider(voice string) *EdgeTTSProvider {
	if voice == "" {
		voice = edgeDefaultVoice
	}
	return &EdgeTTSProvider{voice: voice}
}

func (p *EdgeTTSProvider) Name() string {
	return "edge"
}

func (p *EdgeTTSProvider) Synthesize(ctx context.Context, text string, opts *TTSOptions) ([]byte, error) {
	voice := p.voice
	if opts != nil && opts.Voice != "" {
		voice = opts.Voice
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, edgeTTSEndpoint+"?TrustedClientToken="+edgeTrustedToken, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to websocket: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(edgeSynthesisWindow)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetReadDeadline(deadline)
	conn.SetWriteDeadline(deadline)

	requestID := strings.ReplaceAll(uuid.NewString(), "-", "")
	timestamp := time.Now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")

	configFrame := fmt.Sprintf(
		"X-Timestamp:%s\r\nContent-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n"+
			`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"%s"}}}}`,
		timestamp, edgeAudioFormat)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configFrame)); err != nil {
		return nil, fmt.Errorf("failed to send config frame: %w", err)
	}

	ssml := fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='ru-RU'><voice name='%s'>%s</voice></speak>`,
		voice, escapeSSML(text))
	ssmlFrame := fmt.Sprintf(
		"X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nX-Timestamp:%s\r\nPath:ssml\r\n\r\n%s",
		requestID, timestamp, ssml)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlFrame)); err != nil {
		return nil, fmt.Errorf("failed to send ssml frame: %w", err)
	}

	var audio bytes.Buffer
	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && audio.Len() > 0 {
				break
			}
			return nil, fmt.Errorf("failed to read from websocket: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(message), "Path:turn.end") {
				if audio.Len() == 0 {
					return nil, fmt.Errorf("synthesis produced no audio")
				}
				return audio.Bytes(), nil
			}

		case websocket.BinaryMessage:
			// Binary frame: 2-byte header length, headers, then audio payload.
			if len(message) < 2 {
				continue
			}
			headerLen := int(message[0])<<8 | int(message[1])
			if len(message) < 2+headerLen {
				continue
			}
			header := message[2 : 2+headerLen]
			if !bytes.Contains(header, []byte("Path:audio")) {
				continue
			}
			audio.Write(message[2+headerLen:])
		}
	}

	return audio.Bytes(), nil
}

func escapeSSML(text string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "'", "&apos;", `"`, "&quot;")
	return r.Replace(text)
}
