package classify

import (
	"fmt"
	"regexp"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"NewsClipper/internal/config"
)

type patternKind int

const (
	kindExclusion patternKind = iota
	kindForeign
	kindUmbrella
	kindEntity
)

// shortTokenLimit: ASCII tokens at or below this length ("KT", "SKT") are
// verified on word boundaries, otherwise "KT" would hit inside "SKT".
const shortTokenLimit = 3

type pattern struct {
	text     string
	kind     patternKind
	label    string
	boundary *regexp.Regexp
}

// Classifier assigns at most one tag from a category's closed vocabulary.
// It is a pure function of the title text plus the static tables it was
// built from; all tokens live in one Aho-Corasick automaton.
type Classifier struct {
	category      string
	umbrellaLabel string
	entityOrder   []string
	patterns      []pattern
	matcher       *ahocorasick.Matcher
}

// New builds the automaton for one category. foreignTokens carries the
// entity vocabulary of every other category; in an exclusive category any
// foreign hit rejects the title so it is captured by its own category pass.
func New(cat config.CategoryConfig, foreignTokens []string) (*Classifier, error) {
	c := &Classifier{category: cat.Key}

	for _, tok := range cat.Exclusions {
		c.add(tok, kindExclusion, "")
	}
	if cat.Exclusive {
		for _, tok := range foreignTokens {
			c.add(tok, kindForeign, "")
		}
	}
	if cat.Umbrella != nil {
		c.umbrellaLabel = cat.Umbrella.Label
		for _, tok := range cat.Umbrella.Tokens {
			c.add(tok, kindUmbrella, cat.Umbrella.Label)
		}
	}
	for _, ent := range cat.Entities {
		c.entityOrder = append(c.entityOrder, ent.Label)
		for _, tok := range ent.Tokens {
			c.add(tok, kindEntity, ent.Label)
		}
	}

	if len(c.patterns) == 0 {
		return nil, fmt.Errorf("category %s has no vocabulary", cat.Key)
	}

	texts := make([]string, len(c.patterns))
	for i, p := range c.patterns {
		texts[i] = p.text
	}
	c.matcher = ahocorasick.NewStringMatcher(texts)

	return c, nil
}

func (c *Classifier) add(tok string, kind patternKind, label string) {
	text := NormalizeToken(tok)
	if text == "" {
		return
	}
	p := pattern{text: text, kind: kind, label: label}
	if isShortASCII(text) {
		p.boundary = regexp.MustCompile(`\b` + regexp.QuoteMeta(text) + `\b`)
	}
	c.patterns = append(c.patterns, p)
}

func isShortASCII(tok string) bool {
	if len(tok) > shortTokenLimit {
		return false
	}
	for i := 0; i < len(tok); i++ {
		ch := tok[i]
		isWord := ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9'
		if !isWord {
			return false
		}
	}
	return true
}

// Category reports which category table this classifier was built from.
func (c *Classifier) Category() string {
	return c.category
}

// Classify maps a normalized title (see MatchText) to a tag, or rejects.
// Rules in order: exclusion filter, foreign vocabulary, umbrella
// consolidation (explicit umbrella token or two-plus distinct entities),
// single entity. A title with no explicit match is rejected even when the
// query that produced it was scoped to one entity.
func (c *Classifier) Classify(matchText string) (string, bool) {
	hits := c.matcher.Match([]byte(matchText))

	umbrella := false
	entities := map[string]bool{}
	for _, idx := range hits {
		if idx < 0 || idx >= len(c.patterns) {
			continue
		}
		p := c.patterns[idx]
		if p.boundary != nil && !p.boundary.MatchString(matchText) {
			continue
		}
		switch p.kind {
		case kindExclusion, kindForeign:
			return "", false
		case kindUmbrella:
			umbrella = true
		case kindEntity:
			entities[p.label] = true
		}
	}

	if umbrella || len(entities) >= 2 {
		if c.umbrellaLabel != "" {
			return c.umbrellaLabel, true
		}
		// No umbrella configured: keep the first matched entity in the
		// category's declared order so the result stays deterministic.
		for _, label := range c.entityOrder {
			if entities[label] {
				return label, true
			}
		}
		return "", false
	}

	if len(entities) == 1 {
		for label := range entities {
			return label, true
		}
	}

	return "", false
}
