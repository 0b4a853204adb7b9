package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// speechClient is the part of the OpenAI client used here
type speechClient interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// OpenAIConfig configures the OpenAI speech synthesizer
type OpenAIConfig struct {
	APIKey string
	Model  string // "tts-1", "tts-1-hd" or "gpt-4o-mini-tts"
	Voice  string // "alloy", "nova", "shimmer", ...
}

// OpenAI renders utterances with the OpenAI speech API. Its voices are remote.
type OpenAI struct {
	client speechClient
	config OpenAIConfig
}

// NewOpenAI creates an OpenAI synthesizer
func NewOpenAI(config OpenAIConfig) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.Model == "" {
		config.Model = string(openai.TTSModel1)
	}
	if config.Voice == "" {
		config.Voice = string(openai.VoiceNova)
	}
	return &OpenAI{
		client: openai.NewClient(config.APIKey),
		config: config,
	}, nil
}

// Name returns the synthesizer name
func (o *OpenAI) Name() string {
	return "openai"
}

// Extension returns the produced file extension
func (o *OpenAI) Extension(*Voice) string {
	return ".mp3"
}

// IsAvailable checks that an API key is configured
func (o *OpenAI) IsAvailable() error {
	if o.config.APIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// Voices returns the configured voice; OpenAI voices speak French when given French text
func (o *OpenAI) Voices() []Voice {
	return []Voice{{Name: o.config.Voice, Lang: Language, Local: false}}
}

// Synthesize writes an MP3 file for u
func (o *OpenAI) Synthesize(ctx context.Context, u Utterance, outputFile string) error {
	text := strings.TrimSpace(u.Text)
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	voice := o.config.Voice
	if u.Voice != nil && u.Voice.Name != "" {
		voice = u.Voice.Name
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.config.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          orOne(u.Rate),
	}

	response, err := o.client.CreateSpeech(ctx, req)
	if err != nil {
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, response)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}
	return nil
}
