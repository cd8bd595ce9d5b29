// Package config holds the immutable run parameters of a brandscan crawl.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate when a bound or list is unusable.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for a crawl run. It is built once before
// the crawl starts and never mutated afterwards.
type Config struct {
	// Bounds
	MaxPages          int           `yaml:"max_pages"`
	MaxDepth          int           `yaml:"max_depth"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	SettleDelay       time.Duration `yaml:"settle_delay"`

	// Feature toggles
	EnableScreenshots        bool `yaml:"enable_screenshots"`
	EnableMarkdownSnapshot   bool `yaml:"enable_markdown_snapshot"`
	EnableBrandAnalysis      bool `yaml:"enable_brand_analysis"`
	EnableElementScreenshots bool `yaml:"enable_element_screenshots"`
	EnableTextAnalysis       bool `yaml:"enable_text_analysis"`
	RespectRobots            bool `yaml:"respect_robots"`

	// Text analysis
	TopNKeywords int     `yaml:"top_n_keywords"`
	StopWords    WordSet `yaml:"stop_words"`
	CTAPhrases   WordSet `yaml:"cta_phrases"`

	// Element capture, in capture order
	ElementCaptureSelectors []SelectorSpec `yaml:"element_capture_selectors"`

	// Browser / fetch
	UserAgent        string        `yaml:"user_agent"`
	Headless         bool          `yaml:"headless"`
	LogoFetchTimeout time.Duration `yaml:"logo_fetch_timeout"`

	// Output
	OutputRoot string `yaml:"output_root"`
}

// SelectorSpec names a CSS selector whose matches are captured as images.
type SelectorSpec struct {
	Name     string `yaml:"name"`
	Selector string `yaml:"selector"`
}

// Validate checks the bounds described on Config.
func (c Config) Validate() error {
	switch {
	case c.MaxPages <= 0:
		return fmt.Errorf("%w: max_pages must be > 0, got %d", ErrInvalid, c.MaxPages)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth must be >= 0, got %d", ErrInvalid, c.MaxDepth)
	case c.NavigationTimeout <= 0:
		return fmt.Errorf("%w: navigation_timeout must be > 0", ErrInvalid)
	case c.SettleDelay < 0:
		return fmt.Errorf("%w: settle_delay must be >= 0", ErrInvalid)
	case c.TopNKeywords <= 0:
		return fmt.Errorf("%w: top_n_keywords must be > 0, got %d", ErrInvalid, c.TopNKeywords)
	}

	seen := make(map[string]bool, len(c.ElementCaptureSelectors))
	for i, s := range c.ElementCaptureSelectors {
		if s.Name == "" || s.Selector == "" {
			return fmt.Errorf("%w: element_capture_selectors[%d] needs name and selector", ErrInvalid, i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate element capture name %q", ErrInvalid, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// WordSet is a case-insensitive set of words or phrases. In YAML it is
// written as a plain list.
type WordSet map[string]struct{}

// NewWordSet builds a set from the given words, lowercased and trimmed.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Has reports whether w (already lowercased) is in the set.
func (s WordSet) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// Sorted returns the members in lexical order.
func (s WordSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// UnmarshalYAML decodes a YAML sequence into the set.
func (s *WordSet) UnmarshalYAML(value *yaml.Node) error {
	var words []string
	if err := value.Decode(&words); err != nil {
		return err
	}
	*s = NewWordSet(words...)
	return nil
}

// MarshalYAML encodes the set as a sorted sequence.
func (s WordSet) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}
