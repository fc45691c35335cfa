package assistant

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"comunia/internal/domain"
)

//go:embed rules.yaml
var defaultRules []byte

// CategoryRule maps keywords to one category of the fixed set.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Rules are the keyword tables driving intent classification and category
// inference. All keywords are stored normalized.
type Rules struct {
	Affirmations   []string       `yaml:"affirmations"`
	SearchKeywords []string       `yaml:"search_keywords"`
	AdviceKeywords []string       `yaml:"advice_keywords"`
	StopWords      []string       `yaml:"stop_words"`
	Categories     []CategoryRule `yaml:"categories"`

	affirm map[string]struct{}
	stop   map[string]struct{}
	keys   []categoryKey
}

type categoryKey struct {
	key      string
	category string
}

// DefaultRules returns the embedded rule tables.
func DefaultRules() (*Rules, error) { return ParseRules(defaultRules) }

// LoadRules reads rules from path, or the embedded defaults when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(b)
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(b []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rules) compile() error {
	var err error
	if r.Affirmations, err = normalizeList("affirmations", r.Affirmations); err != nil {
		return err
	}
	if r.SearchKeywords, err = normalizeList("search_keywords", r.SearchKeywords); err != nil {
		return err
	}
	if r.AdviceKeywords, err = normalizeList("advice_keywords", r.AdviceKeywords); err != nil {
		return err
	}
	// An empty stop-word list is allowed.
	r.StopWords, _ = normalizeList("stop_words", r.StopWords)

	if len(r.Categories) == 0 {
		return errors.New("rules: categories must not be empty")
	}
	r.keys = r.keys[:0]
	for i, c := range r.Categories {
		canon, ok := domain.CanonicalCategory(c.Category)
		if !ok {
			return fmt.Errorf("rules: unknown category %q", c.Category)
		}
		kws, err := normalizeList("categories["+canon+"]", c.Keywords)
		if err != nil {
			return err
		}
		r.Categories[i] = CategoryRule{Category: canon, Keywords: kws}
		for _, k := range kws {
			r.keys = append(r.keys, categoryKey{key: k, category: canon})
		}
	}

	r.affirm = toSet(r.Affirmations)
	r.stop = toSet(r.StopWords)
	return nil
}

func normalizeList(name string, in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rules: %s must not be empty", name)
	}
	return out, nil
}

func toSet(in []string) map[string]struct{} {
	m := make(map[string]struct{}, len(in))
	for _, s := range in {
		m[s] = struct{}{}
	}
	return m
}

// IsAffirmation reports whether the normalized message is exactly an affirmation.
func (r *Rules) IsAffirmation(normalized string) bool {
	_, ok := r.affirm[normalized]
	return ok
}

func (r *Rules) isStopWord(tok string) bool {
	_, ok := r.stop[tok]
	return ok
}

// InferCategory returns the category for the first query token, in query
// order, that equals or is contained in a keyword. Multi-word keywords also
// match when the whole keyword appears in the query.
func (r *Rules) InferCategory(normalized string) (string, bool) {
	for _, tok := range significant(normalized) {
		for _, k := range r.keys {
			if tok == k.key || strings.Contains(k.key, tok) {
				return k.category, true
			}
		}
	}
	for _, k := range r.keys {
		if strings.Contains(k.key, " ") {
			if _, ok := hasWordPrefix(normalized, k.key); ok {
				return k.category, true
			}
		}
	}
	return "", false
}
