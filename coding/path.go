package coding

import (
	"cmp"
	"fmt"
	"strings"
)

// CodePath identifies a position in the coding hierarchy. Absent levels are
// the empty string.
type CodePath struct {
	Code       string `json:"code"        yaml:"code"`
	Subcode    string `json:"subcode"     yaml:"subcode"`
	SubSubcode string `json:"sub_subcode" yaml:"sub_subcode"`
}

// ParseCodePath splits a flattened code on ":" and assigns the trimmed parts
// to levels by position. More than [MaxDepth] parts returns
// [ErrMalformedAnnotation].
func ParseCodePath(flat string) (CodePath, error) {
	parts := strings.Split(flat, levelSep)
	if len(parts) > MaxDepth {
		return CodePath{}, fmt.Errorf("%w: code %q has %d levels, at most %d allowed",
			ErrMalformedAnnotation, flat, len(parts), MaxDepth)
	}

	var p CodePath

	levels := [MaxDepth]*string{&p.Code, &p.Subcode, &p.SubSubcode}
	for i, part := range parts {
		*levels[i] = strings.TrimSpace(part)
	}

	return p, nil
}

// Levels returns the three levels in order.
func (p CodePath) Levels() [MaxDepth]string {
	return [MaxDepth]string{p.Code, p.Subcode, p.SubSubcode}
}

// String returns the non-empty levels joined by ":".
func (p CodePath) String() string {
	var sb strings.Builder

	for _, level := range p.Levels() {
		if level == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString(levelSep)
		}

		sb.WriteString(level)
	}

	return sb.String()
}

// Depth returns the index of the deepest non-empty level plus one.
func (p CodePath) Depth() int {
	levels := p.Levels()
	for i := MaxDepth - 1; i >= 0; i-- {
		if levels[i] != "" {
			return i + 1
		}
	}

	return 0
}

// Truncate clears every level below depth.
func (p CodePath) Truncate(depth int) CodePath {
	if depth < 3 {
		p.SubSubcode = ""
	}

	if depth < 2 {
		p.Subcode = ""
	}

	if depth < 1 {
		p.Code = ""
	}

	return p
}

// HasPrefix reports whether every non-empty level of prefix equals the
// corresponding level of p.
func (p CodePath) HasPrefix(prefix CodePath) bool {
	levels := p.Levels()
	for i, want := range prefix.Levels() {
		if want != "" && levels[i] != want {
			return false
		}
	}

	return true
}

// Compare orders paths level by level using ordinary string comparison.
func (p CodePath) Compare(o CodePath) int {
	return cmp.Or(
		strings.Compare(p.Code, o.Code),
		strings.Compare(p.Subcode, o.Subcode),
		strings.Compare(p.SubSubcode, o.SubSubcode),
	)
}
