// Package tokenizer splits page text into sentences with a Punkt tokenizer.
// Splitting is deterministic for identical input, which the divination
// addressing relies on.
package tokenizer

import (
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"
)

// Punkt training files bundled with the project for locales the library
// does not ship, russian first of all.
//
//go:embed data/*.json
var localeFS embed.FS

type SentenceTokenizer struct {
	mu         sync.Mutex
	tokenizers map[string]*sentences.DefaultSentenceTokenizer
}

func NewSentenceTokenizer() *SentenceTokenizer {
	return &SentenceTokenizer{
		tokenizers: make(map[string]*sentences.DefaultSentenceTokenizer),
	}
}

// SplitSentences tokenizes text with the training data of the given locale
// (e.g. "russian", "english"). When the locale data cannot be loaded the
// whole text is returned as a single sentence so a divination stays
// possible.
func (t *SentenceTokenizer) SplitSentences(text, locale string) []string {
	tok, err := t.forLocale(locale)
	if err != nil {
		slog.Warn(
			"no tokenizer for locale, treating page as one sentence",
			slog.String("locale", locale),
			slog.String("err", err.Error()),
		)
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	tokenized := tok.Tokenize(text)
	result := make([]string, 0, len(tokenized))
	for _, s := range tokenized {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (t *SentenceTokenizer) forLocale(locale string) (*sentences.DefaultSentenceTokenizer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tok, ok := t.tokenizers[locale]; ok {
		return tok, nil
	}

	asset, err := trainingData(locale)
	if err != nil {
		return nil, fmt.Errorf("load %s training data: %w", locale, err)
	}

	training, err := sentences.LoadTraining(asset)
	if err != nil {
		return nil, fmt.Errorf("parse %s training data: %w", locale, err)
	}

	tok := sentences.NewSentenceTokenizer(training)
	t.tokenizers[locale] = tok
	return tok, nil
}

// trainingData prefers the project-bundled training file over the one the
// library ships for the same locale.
func trainingData(locale string) ([]byte, error) {
	if asset, err := localeFS.ReadFile("data/" + locale + ".json"); err == nil {
		return asset, nil
	}
	return data.Asset(locale + ".json")
}
