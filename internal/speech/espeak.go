package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

const (
	espeakNormalSpeed     = 175 // words per minute
	espeakNormalPitch     = 50  // 0 to 99
	espeakNormalAmplitude = 100 // 0 to 200
)

// ESpeak renders utterances with the espeak-ng command line tool
type ESpeak struct {
	binary string

	voicesOnce sync.Once
	voices     []Voice
}

// NewESpeak creates an espeak-ng synthesizer, binary defaults to "espeak-ng"
func NewESpeak(binary string) *ESpeak {
	if binary == "" {
		binary = "espeak-ng"
	}
	return &ESpeak{binary: binary}
}

// Name returns the synthesizer name
func (e *ESpeak) Name() string {
	return "espeak-ng"
}

// Extension returns the produced file extension
func (e *ESpeak) Extension(*Voice) string {
	return ".wav"
}

// IsAvailable checks that espeak-ng can be found
func (e *ESpeak) IsAvailable() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// Voices lists the French voices known to espeak-ng, all of them local
func (e *ESpeak) Voices() []Voice {
	e.voicesOnce.Do(func() {
		out, err := exec.Command(e.binary, "--voices=fr").Output()
		if err == nil {
			e.voices = parseESpeakVoices(out)
		}
		if len(e.voices) == 0 {
			e.voices = []Voice{{Name: "fr", Lang: "fr-fr", Local: true}}
		}
	})
	return e.voices
}

// Synthesize writes a WAV file for u
func (e *ESpeak) Synthesize(ctx context.Context, u Utterance, outputFile string) error {
	if strings.TrimSpace(u.Text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, e.binary, espeakArgs(u, outputFile)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func espeakArgs(u Utterance, outputFile string) []string {
	voice := "fr"
	if u.Voice != nil && u.Voice.Name != "" {
		voice = u.Voice.Name
	} else if u.Lang != "" {
		voice = strings.ToLower(u.Lang)
	}

	speed := clamp(int(float64(espeakNormalSpeed)*orOne(u.Rate)), 80, 450)
	pitch := clamp(int(float64(espeakNormalPitch)*orOne(u.Pitch)), 0, 99)
	amplitude := clamp(int(float64(espeakNormalAmplitude)*u.Volume), 0, 200)

	return []string{
		"-v", voice,
		"-s", strconv.Itoa(speed),
		"-p", strconv.Itoa(pitch),
		"-a", strconv.Itoa(amplitude),
		"-w", outputFile,
		u.Text,
	}
}

// parseESpeakVoices reads the table printed by `espeak-ng --voices`
func parseESpeakVoices(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{Name: fields[1], Lang: fields[1], Local: true})
	}
	return voices
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
