package coding

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the parser and the table builder.
var (
	ErrMalformedAnnotation = errors.New("malformed annotation")
	ErrMissingCommentField = errors.New("missing comment field")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidOption       = errors.New("invalid option")
	ErrReadInput           = errors.New("read input")
)

const (
	// MaxDepth is the number of hierarchy levels a code may have.
	MaxDepth = 3

	// DefaultLineBreak separates annotations inside a comment's HTML content.
	DefaultLineBreak = "<br>"

	levelSep   = ":"
	siblingSep = ","
)

// Coding is a single flattened code applied to a quoted passage.
type Coding struct {
	Code string `json:"code" yaml:"code"`
	Text string `json:"text" yaml:"text"`
}

// SplitAnnotations splits a comment's raw content into independent
// annotations on marker. Segments that are empty after trimming are dropped.
// An empty marker disables splitting.
func SplitAnnotations(raw, marker string) []string {
	segments := []string{raw}
	if marker != "" {
		segments = strings.Split(raw, marker)
	}

	out := make([]string, 0, len(segments))

	for _, s := range segments {
		if strings.TrimSpace(s) == "" {
			continue
		}

		out = append(out, s)
	}

	return out
}

// ParseAnnotation parses one annotation into the codes it applies to quoted.
//
// The annotation is lowercased and passed through n (which may be nil)
// before it is split into levels. When the deepest level lists comma
// separated siblings, one [Coding] is returned per sibling, each prefixed
// with the trimmed parent levels joined by ": ". Otherwise a single [Coding]
// is returned: the trimmed code for a one-level annotation, or the
// normalized annotation as written for deeper ones.
//
// An annotation with more than [MaxDepth] levels returns
// [ErrMalformedAnnotation].
func ParseAnnotation(raw, quoted string, n *Normalizer) ([]Coding, error) {
	text := strings.ReplaceAll(quoted, "&#39;", "'")
	code := n.Replace(strings.ToLower(raw))

	parts := strings.Split(code, levelSep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > MaxDepth {
		return nil, fmt.Errorf("%w: %q has %d levels, at most %d allowed",
			ErrMalformedAnnotation, raw, len(parts), MaxDepth)
	}

	if len(parts) == 1 {
		return []Coding{{Code: parts[0], Text: text}}, nil
	}

	leaf := parts[len(parts)-1]
	if !strings.Contains(leaf, siblingSep) {
		return []Coding{{Code: code, Text: text}}, nil
	}

	parent := strings.Join(parts[:len(parts)-1], levelSep+" ")
	siblings := strings.Split(leaf, siblingSep)
	out := make([]Coding, 0, len(siblings))

	for _, s := range siblings {
		out = append(out, Coding{
			Code: parent + levelSep + " " + strings.TrimSpace(s),
			Text: text,
		})
	}

	return out, nil
}
