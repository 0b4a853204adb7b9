package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Composite offers the voices of several synthesizers and routes each utterance to
// the synthesizer owning its voice. Unavailable synthesizers are skipped.
type Composite struct {
	synths []Synthesizer
}

// NewComposite combines synthesizers, earlier ones win when no voice is requested
func NewComposite(synths ...Synthesizer) *Composite {
	return &Composite{synths: synths}
}

// Name returns the names of the combined synthesizers
func (c *Composite) Name() string {
	names := make([]string, 0, len(c.synths))
	for _, s := range c.synths {
		names = append(names, s.Name())
	}
	return strings.Join(names, "+")
}

// IsAvailable succeeds when at least one synthesizer is available
func (c *Composite) IsAvailable() error {
	var errs []error
	for _, s := range c.synths {
		err := s.IsAvailable()
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	if len(errs) == 0 {
		return fmt.Errorf("no synthesizer configured")
	}
	return errors.Join(errs...)
}

// Voices lists the voices of every available synthesizer
func (c *Composite) Voices() []Voice {
	var voices []Voice
	for _, s := range c.available() {
		voices = append(voices, s.Voices()...)
	}
	return voices
}

// Extension returns the extension of the synthesizer that would render v
func (c *Composite) Extension(v *Voice) string {
	s, err := c.route(v)
	if err != nil {
		return ""
	}
	return s.Extension(v)
}

// Synthesize renders u with the synthesizer owning its voice
func (c *Composite) Synthesize(ctx context.Context, u Utterance, outputFile string) error {
	s, err := c.route(u.Voice)
	if err != nil {
		return err
	}
	return s.Synthesize(ctx, u, outputFile)
}

func (c *Composite) available() []Synthesizer {
	var out []Synthesizer
	for _, s := range c.synths {
		if s.IsAvailable() == nil {
			out = append(out, s)
		}
	}
	return out
}

func (c *Composite) route(v *Voice) (Synthesizer, error) {
	available := c.available()
	if len(available) == 0 {
		return nil, fmt.Errorf("no synthesizer available")
	}
	if v == nil {
		return available[0], nil
	}
	for _, s := range available {
		for _, candidate := range s.Voices() {
			if candidate == *v {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVoice, v.Name)
}
