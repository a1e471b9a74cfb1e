// Package perception fans a request's media out to the perception
// collaborators (speech-to-text, detection, captioning, OCR) and joins their
// results deterministically.
package perception

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wayfinder-ai/wayfinder/pkg/provider"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	ModeChat      = "chat"
	ModeNavigator = "navigator"
)

// fallbackQuestion keeps the generation stage from ever seeing an empty
// prompt when only an image was supplied.
const fallbackQuestion = "Что изображено?"

// ocrTriggers are the "read the text" markers that promote the conditional
// OCR pass.
var ocrTriggers = []string{"читай", "прочти", "текст", "написано", "цифры"}

// Request is the media subset of a pipeline request.
type Request struct {
	Image []byte
	Audio []byte
	Text  string
	Mode  string
}

// Result joins the perception outputs. Each field is owned by exactly one
// task, so attribution never depends on completion order.
type Result struct {
	Transcript    string
	Caption       string
	OCRText       string
	Objects       []string // localized labels, navigator mode only
	EffectiveText string
	ImageAnalyzed bool
}

type Runner struct {
	stt      provider.STTProvider
	detector provider.DetectorProvider
	caption  provider.CaptionProvider
	ocr      provider.OCRProvider
	maxTasks int
}

// NewRunner wires the perception collaborators. Any of them may be nil, in
// which case the corresponding stage is skipped. maxTasks bounds concurrent
// inference calls.
func NewRunner(stt provider.STTProvider, detector provider.DetectorProvider,
	caption provider.CaptionProvider, ocr provider.OCRProvider, maxTasks int) *Runner {
	if maxTasks <= 0 {
		maxTasks = 2
	}
	return &Runner{
		stt:      stt,
		detector: detector,
		caption:  caption,
		ocr:      ocr,
		maxTasks: maxTasks,
	}
}

// Run executes the perception stages required by the request mode. Stage
// failures are soft: the field stays empty and the pipeline degrades.
func (r *Runner) Run(ctx context.Context, req *Request) *Result {
	result := &Result{}

	// One normalization pass; every consumer sees the same input.
	image := req.Image
	if len(image) > 0 {
		image = NormalizeImage(image)
	}

	if req.Mode == ModeNavigator {
		r.runNavigator(ctx, req, image, result)
	} else {
		r.runChat(ctx, req, image, result)
	}

	result.EffectiveText = mergeText(req.Text, result.Transcript)
	if result.EffectiveText == "" && result.ImageAnalyzed && req.Mode != ModeNavigator {
		result.EffectiveText = fallbackQuestion
	}
	return result
}

// runNavigator is the fast path: detection only, no captioning or OCR.
func (r *Runner) runNavigator(ctx context.Context, req *Request, image []byte, result *Result) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxTasks)

	if len(req.Audio) > 0 && r.stt != nil {
		g.Go(func() error {
			text, err := r.stt.Transcribe(gctx, req.Audio)
			if err != nil {
				logx.Errorf("STT failed: %v", err)
				return nil
			}
			result.Transcript = strings.TrimSpace(text)
			return nil
		})
	}

	if len(image) > 0 && r.detector != nil {
		g.Go(func() error {
			objects, err := r.detector.Detect(gctx, image)
			if err != nil {
				logx.Errorf("detection failed: %v", err)
				return nil
			}
			result.Objects = LocalizeLabels(objects)
			result.ImageAnalyzed = true
			return nil
		})
	}

	g.Wait()
}

// runChat starts speech-to-text and captioning together, joins both, then
// runs OCR as a conditional third step: the trigger depends on the merged
// text, so OCR cannot start before the first two resolve.
func (r *Runner) runChat(ctx context.Context, req *Request, image []byte, result *Result) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxTasks)

	if len(req.Audio) > 0 && r.stt != nil {
		g.Go(func() error {
			text, err := r.stt.Transcribe(gctx, req.Audio)
			if err != nil {
				logx.Errorf("STT failed: %v", err)
				return nil
			}
			result.Transcript = strings.TrimSpace(text)
			return nil
		})
	}

	if len(image) > 0 && r.caption != nil {
		g.Go(func() error {
			caption, err := r.caption.Describe(gctx, image)
			if err != nil {
				logx.Errorf("captioning failed: %v", err)
				return nil
			}
			result.Caption = strings.TrimSpace(caption)
			result.ImageAnalyzed = true
			return nil
		})
	}

	g.Wait()

	merged := strings.ToLower(mergeText(req.Text, result.Transcript))
	if len(image) > 0 && r.ocr != nil && containsTrigger(merged) {
		text, err := r.ocr.ReadText(ctx, image)
		if err != nil {
			logx.Errorf("OCR failed: %v", err)
			return
		}
		result.OCRText = strings.TrimSpace(text)
	}
}

// mergeText forms the effective input: client text first, transcript
// appended, whitespace trimmed.
func mergeText(clientText, transcript string) string {
	return strings.TrimSpace(strings.TrimSpace(clientText) + " " + transcript)
}

func containsTrigger(text string) bool {
	for _, w := range ocrTriggers {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
