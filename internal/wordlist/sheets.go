package wordlist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dictee/internal/domain"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// wordNamespace derives stable ids for sheets without an id column
var wordNamespace = uuid.MustParse("6f1c2a8e-5b0d-4e1f-9a57-3d2f64b1c0aa")

// SheetsSource reads words from a spreadsheet published as CSV, for example
// https://docs.google.com/spreadsheets/d/<id>/export?format=csv
//
// The first row may be a header naming "id" and "text" (or "word"/"mot") columns.
// Without a header, a single column holds the text and two columns hold id, text.
type SheetsSource struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewSheetsSource creates a source for the CSV export URL
func NewSheetsSource(url string, timeout time.Duration) *SheetsSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SheetsSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "word-sheet",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// FetchWords downloads and parses the sheet
func (s *SheetsSource) FetchWords(ctx context.Context) ([]domain.Word, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.download(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("word sheet temporarily unavailable: %w", err)
		}
		return nil, err
	}
	return ParseCSV(strings.NewReader(result.(string)))
}

func (s *SheetsSource) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch word sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("word sheet returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read word sheet: %w", err)
	}
	return string(body), nil
}

// ParseCSV reads words from CSV rows. Blank rows and repeated ids are skipped.
func ParseCSV(r io.Reader) ([]domain.Word, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse word sheet: %w", err)
	}

	idCol, textCol := -1, 0
	if len(records) > 0 {
		if i, t, ok := headerColumns(records[0]); ok {
			idCol, textCol = i, t
			records = records[1:]
		} else if len(records[0]) >= 2 {
			idCol, textCol = 0, 1
		}
	}

	words := make([]domain.Word, 0, len(records))
	seen := make(map[string]bool)
	for _, rec := range records {
		text := strings.TrimSpace(field(rec, textCol))
		if text == "" {
			continue
		}
		id := strings.TrimSpace(field(rec, idCol))
		if id == "" {
			id = uuid.NewSHA1(wordNamespace, []byte(text)).String()
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		words = append(words, domain.Word{ID: id, Text: text})
	}
	return words, nil
}

func headerColumns(row []string) (idCol, textCol int, ok bool) {
	idCol, textCol = -1, -1
	for i, name := range row {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			idCol = i
		case "text", "word", "mot":
			textCol = i
		}
	}
	return idCol, textCol, textCol >= 0
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
