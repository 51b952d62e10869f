// Package wordpool loads the word list resource and draws random words from it.
package wordpool

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultSource names the word list compiled into the binary.
const DefaultSource = "builtin"

const maxResourceBytes = 16 << 20

//go:embed default_words.json
var defaultWords []byte

// Pool is an immutable set of candidate words.
type Pool struct {
	words []string
	rnd   *rand.Rand
}

// NewPool returns a pool over words. A nil rnd is seeded with the current time.
func NewPool(words []string, rnd *rand.Rand) *Pool {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Pool{words: append([]string(nil), words...), rnd: rnd}
}

// RandomWord returns a uniformly chosen word. Immediate repeats are allowed.
func (p *Pool) RandomWord() string {
	if len(p.words) == 0 {
		return ""
	}
	return p.words[p.rnd.Intn(len(p.words))]
}

// Len returns the number of candidate words.
func (p *Pool) Len() int {
	return len(p.words)
}

// Words returns a copy of the candidate words.
func (p *Pool) Words() []string {
	return append([]string(nil), p.words...)
}

// Load fetches and decodes the word list named by source: an http(s) URL,
// a file path, or empty (or DefaultSource) for the built-in list.
func Load(ctx context.Context, source string) (*Pool, error) {
	data, err := fetch(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: sourceName(source), Err: err}
	}
	words, err := Decode(sourceName(source), data)
	if err != nil {
		return nil, err
	}
	return NewPool(words, nil), nil
}

// Decode parses a `{"words": [...]}` document.
func Decode(source string, data []byte) ([]string, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		if err == nil {
			err = fmt.Errorf("invalid JSON")
		}
		return nil, &LoadError{Source: source, Err: fmt.Errorf("failed to parse word list: %w", err)}
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaError{Source: source, Reason: "document is not an object"}
	}
	raw, ok := doc["words"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &SchemaError{Source: source, Reason: `field "words" is missing`}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &SchemaError{Source: source, Reason: `field "words" is not an array`}
	}
	words := make([]string, 0, len(items))
	for i, item := range items {
		var word string
		if err := json.Unmarshal(item, &word); err != nil || bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			return nil, &SchemaError{Source: source, Reason: fmt.Sprintf(`field "words" item %d is not a string`, i)}
		}
		words = append(words, word)
	}
	if len(words) == 0 {
		return nil, &SchemaError{Source: source, Reason: `field "words" is empty`}
	}
	return words, nil
}

func fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case source == "" || source == DefaultSource:
		return defaultWords, nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return fetchURL(ctx, source)
	default:
		return os.ReadFile(source)
	}
}

func fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResourceBytes))
}

func sourceName(source string) string {
	if source == "" {
		return DefaultSource
	}
	return source
}
