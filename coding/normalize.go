package coding

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
)

// Replacement rewrites the phrase From to To.
type Replacement struct {
	From string
	To   string
}

// Normalizer substitutes whole-word phrases in lowercased annotation text.
//
// Phrases are replaced in one left-to-right, non-overlapping pass, and only
// where both ends fall on a word boundary. Letters, digits and "_" of any
// script are word characters, so "ux" does not match inside "éux". When
// several phrases match at the same position, the one listed first wins.
//
// A nil *Normalizer is valid and leaves text unchanged.
type Normalizer struct {
	order []Replacement
}

// NewNormalizer builds a [Normalizer] from pairs, in priority order.
// Phrases are trimmed and lowercased; empty and repeated phrases are ignored.
func NewNormalizer(pairs ...Replacement) *Normalizer {
	n := &Normalizer{}
	seen := make(map[string]struct{}, len(pairs))

	for _, p := range pairs {
		from := strings.ToLower(strings.TrimSpace(p.From))
		if from == "" {
			continue
		}

		if _, ok := seen[from]; ok {
			continue
		}

		seen[from] = struct{}{}
		n.order = append(n.order, Replacement{From: from, To: strings.ToLower(p.To)})
	}

	return n
}

// NormalizerFromMap builds a [Normalizer] from an unordered map. Longer
// phrases take priority over shorter ones, then phrases sort lexically.
func NormalizerFromMap(m map[string]string) *Normalizer {
	keys := slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), strings.Compare(a, b))
	})

	pairs := make([]Replacement, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Replacement{From: k, To: m[k]})
	}

	return NewNormalizer(pairs...)
}

// ReadNormalizer decodes a YAML or JSON mapping of phrase to replacement.
// Mapping order in the document is the priority order.
func ReadNormalizer(data []byte) (*Normalizer, error) {
	var ms yaml.MapSlice

	err := yaml.Unmarshal(data, &ms)
	if err != nil {
		return nil, fmt.Errorf("%w: normalization map: %w", ErrInvalidInput, err)
	}

	pairs := make([]Replacement, 0, len(ms))

	for _, item := range ms {
		from, ok := scalarString(item.Key)
		if !ok {
			return nil, fmt.Errorf("%w: normalization key %v is not a scalar", ErrInvalidInput, item.Key)
		}

		to, ok := scalarString(item.Value)
		if !ok {
			return nil, fmt.Errorf("%w: normalization value for %q is not a scalar", ErrInvalidInput, from)
		}

		pairs = append(pairs, Replacement{From: from, To: to})
	}

	return NewNormalizer(pairs...), nil
}

// Replace applies all substitutions to s.
func (n *Normalizer) Replace(s string) string {
	if n == nil || len(n.order) == 0 {
		return s
	}

	var sb strings.Builder

	for i := 0; i < len(s); {
		if r, ok := n.matchAt(s, i); ok {
			sb.WriteString(r.To)
			i += len(r.From)

			continue
		}

		_, size := utf8.DecodeRuneInString(s[i:])
		sb.WriteString(s[i : i+size])
		i += size
	}

	return sb.String()
}

// matchAt returns the first phrase that occurs as a whole word at byte
// offset i of s.
func (n *Normalizer) matchAt(s string, i int) (Replacement, bool) {
	if !wordBoundary(s, i) {
		return Replacement{}, false
	}

	for _, r := range n.order {
		if strings.HasPrefix(s[i:], r.From) && wordBoundary(s, i+len(r.From)) {
			return r, true
		}
	}

	return Replacement{}, false
}

// wordBoundary reports whether exactly one of the runes around byte offset
// i of s is a word character.
func wordBoundary(s string, i int) bool {
	before := false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}

	after := false
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}

	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Replacements returns the effective substitutions in priority order.
func (n *Normalizer) Replacements() []Replacement {
	if n == nil {
		return nil
	}

	return slices.Clone(n.order)
}

func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), true
	}

	return "", false
}
