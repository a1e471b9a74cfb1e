// Package speech wraps the synthesis engines behind a facade: a lazily
// loaded primary engine with a permanent fallback, so synthesis failure is
// never fatal to a request.
package speech

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/wayfinder-ai/wayfinder/pkg/provider"

	"github.com/zeromicro/go-zero/core/logx"
)

// EngineState tracks the primary engine handle. Ready and Unavailable are
// terminal for the process lifetime; there is no hot-reload.
type EngineState int32

const (
	StateUninitialized EngineState = iota
	StateLoading
	StateReady
	StateUnavailable
)

func (s EngineState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

// LoaderFunc constructs the primary engine. It runs at most once per
// process; an error marks the engine permanently unavailable.
type LoaderFunc func(ctx context.Context) (provider.TTSProvider, error)

type Facade struct {
	load     LoaderFunc
	fallback provider.TTSProvider
	opts     *provider.TTSOptions

	once    sync.Once
	state   atomic.Int32
	primary provider.TTSProvider
}

// NewFacade builds the facade. fallback may be nil, in which case a primary
// failure simply yields silence.
func NewFacade(load LoaderFunc, fallback provider.TTSProvider, opts *provider.TTSOptions) *Facade {
	return &Facade{
		load:     load,
		fallback: fallback,
		opts:     opts,
	}
}

// State reports the primary engine lifecycle state.
func (f *Facade) State() EngineState {
	return EngineState(f.state.Load())
}

// Speak synthesizes text into audio bytes. The first caller triggers the
// primary engine load; concurrent callers block on the same initialization
// rather than racing it. Any primary failure falls through to the fallback
// engine, and a fallback failure returns nil audio — the text reply still
// goes out.
func (f *Facade) Speak(ctx context.Context, text string) []byte {
	if text == "" {
		return nil
	}

	f.once.Do(func() {
		f.state.Store(int32(StateLoading))
		engine, err := f.load(ctx)
		if err != nil {
			logx.Errorf("primary synthesis engine load failed, disabling permanently: %v", err)
			f.state.Store(int32(StateUnavailable))
			return
		}
		f.primary = engine
		f.state.Store(int32(StateReady))
		logx.Infof("primary synthesis engine ready: %s", engine.Name())
	})

	if f.State() == StateReady {
		audio, err := f.primary.Synthesize(ctx, text, f.opts)
		if err == nil && len(audio) > 0 {
			return audio
		}
		logx.Errorf("primary synthesis failed, using fallback: %v", err)
	}

	if f.fallback == nil {
		return nil
	}
	audio, err := f.fallback.Synthesize(ctx, text, f.opts)
	if err != nil {
		logx.Errorf("fallback synthesis failed: %v", err)
		return nil
	}
	return audio
}
