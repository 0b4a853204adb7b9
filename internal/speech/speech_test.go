package speech

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSynth struct {
	name        string
	ext         string
	voices      []Voice
	unavailable error
	blockOn     string
	started     chan string

	mu         sync.Mutex
	utterances []Utterance
}

func (f *fakeSynth) Name() string            { return f.name }
func (f *fakeSynth) Voices() []Voice         { return f.voices }
func (f *fakeSynth) IsAvailable() error      { return f.unavailable }
func (f *fakeSynth) Extension(*Voice) string { return f.ext }

func (f *fakeSynth) Synthesize(ctx context.Context, u Utterance, outputFile string) error {
	f.mu.Lock()
	f.utterances = append(f.utterances, u)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- u.Text
	}
	if u.Text == f.blockOn {
		<-ctx.Done()
		return ctx.Err()
	}
	return os.WriteFile(outputFile, []byte(u.Text), 0644)
}

type recordingSink struct {
	mu    sync.Mutex
	texts []string
	files []string
	err   error
}

func (r *recordingSink) deliver(_ context.Context, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, string(data))
	r.files = append(r.files, file)
	return r.err
}

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		name     string
		voices   []Voice
		expected *Voice
	}{
		{
			name:     "no voices",
			voices:   nil,
			expected: nil,
		},
		{
			name:     "no french voice",
			voices:   []Voice{{Name: "en", Lang: "en-US", Local: true}},
			expected: nil,
		},
		{
			name: "local french preferred over remote",
			voices: []Voice{
				{Name: "nova", Lang: "fr-FR", Local: false},
				{Name: "fr-fr", Lang: "fr-fr", Local: true},
			},
			expected: &Voice{Name: "fr-fr", Lang: "fr-fr", Local: true},
		},
		{
			name: "remote french when no local one",
			voices: []Voice{
				{Name: "en", Lang: "en-GB", Local: true},
				{Name: "nova", Lang: "fr-FR", Local: false},
			},
			expected: &Voice{Name: "nova", Lang: "fr-FR", Local: false},
		},
		{
			name:     "language match is case insensitive",
			voices:   []Voice{{Name: "Amelie", Lang: "FR-CA", Local: true}},
			expected: &Voice{Name: "Amelie", Lang: "FR-CA", Local: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectVoice(tt.voices))
		})
	}
}

func TestAnnouncer_Unsupported(t *testing.T) {
	sink := &recordingSink{}

	tests := []struct {
		name  string
		synth Synthesizer
	}{
		{name: "no synthesizer", synth: nil},
		{name: "synthesizer unavailable", synth: &fakeSynth{name: "x", unavailable: fmt.Errorf("missing")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnnouncer(tt.synth, sink.deliver, t.TempDir(), zap.NewNop())

			assert.False(t, a.Supported())
			a.Speak("bonjour")
			a.Wait()

			assert.False(t, a.Speaking())
			assert.Empty(t, sink.texts)
		})
	}
}

func TestAnnouncer_Speak(t *testing.T) {
	synth := &fakeSynth{
		name:   "fake",
		ext:    ".wav",
		voices: []Voice{{Name: "nova", Lang: "fr-FR"}, {Name: "fr-fr", Lang: "fr-fr", Local: true}},
	}
	sink := &recordingSink{}
	a := NewAnnouncer(synth, sink.deliver, t.TempDir(), zap.NewNop())

	require.True(t, a.Supported())
	a.Speak("éléphant")
	a.Wait()

	assert.False(t, a.Speaking())
	assert.Equal(t, []string{"éléphant"}, sink.texts)
	require.Len(t, sink.files, 1)
	assert.Contains(t, sink.files[0], ".wav")

	_, err := os.Stat(sink.files[0])
	assert.True(t, os.IsNotExist(err), "rendered file should be removed")

	require.Len(t, synth.utterances, 1)
	u := synth.utterances[0]
	assert.Equal(t, "éléphant", u.Text)
	assert.Equal(t, Language, u.Lang)
	assert.Equal(t, "fr-FR", u.Lang)
	assert.Equal(t, 0.8, u.Rate)
	assert.Equal(t, 1.0, u.Pitch)
	assert.Equal(t, 1.0, u.Volume)
	assert.Equal(t, &Voice{Name: "fr-fr", Lang: "fr-fr", Local: true}, u.Voice)
}

func TestAnnouncer_SpeakCancelsPrevious(t *testing.T) {
	synth := &fakeSynth{
		name:    "fake",
		ext:     ".wav",
		blockOn: "premier",
		started: make(chan string, 2),
	}
	sink := &recordingSink{}
	a := NewAnnouncer(synth, sink.deliver, t.TempDir(), zap.NewNop())

	a.Speak("premier")
	assert.Equal(t, "premier", <-synth.started)
	assert.True(t, a.Speaking())

	a.Speak("second")
	a.Wait()

	assert.False(t, a.Speaking())
	assert.Equal(t, []string{"second"}, sink.texts)
}

func TestAnnouncer_Cancel(t *testing.T) {
	synth := &fakeSynth{
		name:    "fake",
		ext:     ".wav",
		blockOn: "long",
		started: make(chan string, 1),
	}
	sink := &recordingSink{}
	a := NewAnnouncer(synth, sink.deliver, t.TempDir(), zap.NewNop())

	a.Speak("long")
	<-synth.started
	a.Cancel()
	a.Wait()

	assert.False(t, a.Speaking())
	assert.Empty(t, sink.texts)
}

func TestAnnouncer_SinkErrorReturnsToIdle(t *testing.T) {
	synth := &fakeSynth{name: "fake", ext: ".mp3"}
	sink := &recordingSink{err: fmt.Errorf("chat blocked the bot")}
	a := NewAnnouncer(synth, sink.deliver, t.TempDir(), zap.NewNop())

	a.Speak("erreur")
	a.Wait()

	assert.False(t, a.Speaking())
	assert.Equal(t, []string{"erreur"}, sink.texts)
}
