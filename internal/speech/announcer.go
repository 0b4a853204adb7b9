package speech

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// State is the announcer's lifecycle state
type State int

const (
	StateIdle State = iota
	StateSpeaking
)

// Sink receives a rendered audio file; the file is removed once Sink returns
type Sink func(ctx context.Context, file string) error

// Announcer speaks one text at a time. Speak cancels whatever is still in flight,
// it never queues.
type Announcer struct {
	synth  Synthesizer
	sink   Sink
	dir    string
	logger *zap.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewAnnouncer creates an announcer rendering into dir. synth may be nil, in which
// case speech is unsupported.
func NewAnnouncer(synth Synthesizer, sink Sink, dir string, logger *zap.Logger) *Announcer {
	return &Announcer{
		synth:  synth,
		sink:   sink,
		dir:    dir,
		logger: logger,
	}
}

// Supported reports whether a usable synthesizer is configured
func (a *Announcer) Supported() bool {
	return a.synth != nil && a.synth.IsAvailable() == nil
}

// Speaking reports whether an utterance is being rendered or delivered
func (a *Announcer) Speaking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateSpeaking
}

// Speak cancels any previous utterance and pronounces text in French.
// It returns immediately; Wait blocks until the utterance finishes.
func (a *Announcer) Speak(text string) {
	if !a.Supported() {
		a.logger.Warn("Speech synthesis not supported")
		return
	}

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.generation++
	gen := a.generation
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	done := make(chan struct{})
	a.done = done
	a.mu.Unlock()

	u := Utterance{
		Text:   text,
		Lang:   Language,
		Rate:   DefaultRate,
		Pitch:  DefaultPitch,
		Volume: DefaultVolume,
		Voice:  SelectVoice(a.synth.Voices()),
	}

	go func() {
		defer close(done)
		defer cancel()
		a.setState(gen, StateSpeaking)
		err := a.render(ctx, u)
		if err != nil && ctx.Err() == nil {
			a.logger.Warn("Speech failed",
				zap.String("synthesizer", a.synth.Name()),
				zap.String("text", text),
				zap.Error(err),
			)
		}
		a.setState(gen, StateIdle)
	}()
}

// Cancel stops the current utterance, if any
func (a *Announcer) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Wait blocks until the latest utterance has finished
func (a *Announcer) Wait() {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}
}

// setState applies a transition only for the newest utterance
func (a *Announcer) setState(gen uint64, s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen == a.generation {
		a.state = s
	}
}

func (a *Announcer) render(ctx context.Context, u Utterance) error {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(a.dir, "dictee-*"+a.synth.Extension(u.Voice))
	if err != nil {
		return err
	}
	path := f.Name()
	f.Close()
	defer os.Remove(filepath.Clean(path))

	if err := a.synth.Synthesize(ctx, u, path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.sink == nil {
		return nil
	}
	return a.sink(ctx, path)
}
