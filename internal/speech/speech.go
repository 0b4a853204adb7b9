// Package speech pronounces dictation words. Synthesizers render an utterance to an
// audio file and an Announcer hands the file to a Sink (a chat, a player).
package speech

import (
	"context"
	"errors"
	"strings"
)

// Defaults used for every utterance: slow French for children
const (
	Language      = "fr-FR"
	DefaultRate   = 0.8
	DefaultPitch  = 1.0
	DefaultVolume = 1.0
)

// ErrUnknownVoice is returned when no synthesizer owns the requested voice
var ErrUnknownVoice = errors.New("unknown voice")

// Voice describes a voice offered by a synthesizer
type Voice struct {
	Name  string
	Lang  string
	Local bool // rendered on this machine rather than by a remote service
}

// Utterance is one synthesis request
type Utterance struct {
	Text   string
	Lang   string
	Rate   float64 // 1.0 is the engine's normal speed
	Pitch  float64 // 1.0 is the engine's normal pitch
	Volume float64 // 0.0 to 1.0
	Voice  *Voice  // nil lets the synthesizer pick
}

// Synthesizer renders utterances to audio files
type Synthesizer interface {
	// Name returns the synthesizer name
	Name() string

	// Voices lists the voices this synthesizer can render
	Voices() []Voice

	// IsAvailable checks that the synthesizer can be used
	IsAvailable() error

	// Synthesize renders u to outputFile, the extension selects the format
	Synthesize(ctx context.Context, u Utterance, outputFile string) error

	// Extension returns the file extension produced for voice v, including the dot
	Extension(v *Voice) string
}

// SelectVoice prefers a local French voice, then any French voice
func SelectVoice(voices []Voice) *Voice {
	for i := range voices {
		if isFrench(voices[i].Lang) && voices[i].Local {
			return &voices[i]
		}
	}
	for i := range voices {
		if isFrench(voices[i].Lang) {
			return &voices[i]
		}
	}
	return nil
}

func isFrench(lang string) bool {
	return strings.HasPrefix(strings.ToLower(lang), "fr")
}
