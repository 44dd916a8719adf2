package coding

import (
	"cmp"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Record is one coded passage: a single code applied by one comment to the
// passage it quotes.
type Record struct {
	Code       string `json:"code"        yaml:"code"`
	Subcode    string `json:"subcode"     yaml:"subcode"`
	SubSubcode string `json:"sub_subcode" yaml:"sub_subcode"`
	Document   string `json:"document"    yaml:"document"`
	Text       string `json:"text"        yaml:"text"`
	CommentID  string `json:"comment_id"  yaml:"comment_id"`
	Annotator  string `json:"annotator"   yaml:"annotator"`
}

// Path returns the record's position in the coding hierarchy.
func (r Record) Path() CodePath {
	return CodePath{Code: r.Code, Subcode: r.Subcode, SubSubcode: r.SubSubcode}
}

func compareRecords(a, b Record) int {
	return cmp.Or(a.Path().Compare(b.Path()), strings.Compare(a.Document, b.Document))
}

// rawRecord is a collected record whose code is still flattened.
type rawRecord struct {
	code      string
	document  string
	text      string
	commentID string
	annotator string
}

func (r rawRecord) resolve() (Record, error) {
	p, err := ParseCodePath(r.code)
	if err != nil {
		return Record{}, fmt.Errorf("document %q: comment %s: %w", r.document, r.commentID, err)
	}

	return Record{
		Code:       p.Code,
		Subcode:    p.Subcode,
		SubSubcode: p.SubSubcode,
		Document:   r.document,
		Text:       r.text,
		CommentID:  r.commentID,
		Annotator:  r.annotator,
	}, nil
}

// Table holds coded records sorted by code, subcode, sub-subcode and
// document name. Records sharing that key keep collection order. A Table is
// immutable.
type Table struct {
	records []Record
}

// NewTable sorts a copy of records into a [Table].
func NewTable(records ...Record) *Table {
	rs := slices.Clone(records)
	slices.SortStableFunc(rs, compareRecords)

	return &Table{records: rs}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the records in table order.
func (t *Table) Records() []Record {
	return slices.Clone(t.records)
}

// All iterates over the records in table order.
func (t *Table) All() iter.Seq[Record] {
	return slices.Values(t.records)
}

// Documents returns the distinct document names in ascending order.
func (t *Table) Documents() []string {
	seen := make(map[string]struct{})
	for _, r := range t.records {
		seen[r.Document] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Filter returns the records whose path has the given prefix.
func (t *Table) Filter(prefix CodePath) *Table {
	var rs []Record

	for _, r := range t.records {
		if r.Path().HasPrefix(prefix) {
			rs = append(rs, r)
		}
	}

	return &Table{records: rs}
}

// Builder assembles a [Table] from [Documents].
type Builder struct {
	normalizer *Normalizer
	lineBreak  string
}

// Option configures a [Builder].
type Option func(*Builder)

// NewBuilder creates a [Builder] with the given options. By default no
// normalization is applied and annotations are split on [DefaultLineBreak].
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{lineBreak: DefaultLineBreak}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// WithNormalizer sets the [Normalizer] applied to every annotation.
func WithNormalizer(n *Normalizer) Option {
	return func(b *Builder) {
		b.normalizer = n
	}
}

// WithLineBreak sets the marker separating annotations within a comment.
// An empty marker treats each comment as a single annotation.
func WithLineBreak(marker string) Option {
	return func(b *Builder) {
		b.lineBreak = marker
	}
}

// BuildTable builds a [Table] from docs using n, splitting annotations on
// [DefaultLineBreak].
func BuildTable(docs Documents, n *Normalizer) (*Table, error) {
	return NewBuilder(WithNormalizer(n)).Build(docs)
}

// Build parses every comment of every document and returns the sorted
// [Table]. Any malformed annotation or incomplete comment fails the build.
func (b *Builder) Build(docs Documents) (*Table, error) {
	raw, err := b.collect(docs)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raw))

	for _, r := range raw {
		rec, err := r.resolve()
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	slices.SortStableFunc(records, compareRecords)

	return &Table{records: records}, nil
}

func (b *Builder) collect(docs Documents) ([]rawRecord, error) {
	var raw []rawRecord

	for _, name := range slices.Sorted(maps.Keys(docs)) {
		comments := docs[name].Comments
		before := len(raw)

		for i, c := range comments {
			err := c.Validate()
			if err != nil {
				return nil, fmt.Errorf("document %q: comment %d: %w", name, i, err)
			}

			annotations := SplitAnnotations(c.HTMLContent, b.lineBreak)
			if len(annotations) == 0 {
				slog.Debug("skip comment without annotations",
					slog.String("document", name),
					slog.String("comment", c.ID),
				)

				continue
			}

			for _, a := range annotations {
				codings, err := ParseAnnotation(a, c.QuotedFileContent.Value, b.normalizer)
				if err != nil {
					return nil, fmt.Errorf("document %q: comment %s: %w", name, c.ID, err)
				}

				for _, cd := range codings {
					raw = append(raw, rawRecord{
						code:      cd.Code,
						document:  name,
						text:      cd.Text,
						commentID: c.ID,
						annotator: c.Author.DisplayName,
					})
				}
			}
		}

		slog.Debug("collected document",
			slog.String("document", name),
			slog.Int("comments", len(comments)),
			slog.Int("codings", len(raw)-before),
		)
	}

	return raw, nil
}

// CodeList returns the flattened code path of every record in table order.
func CodeList(t *Table) []string {
	codes := make([]string, 0, t.Len())
	for r := range t.All() {
		codes = append(codes, r.Path().String())
	}

	return codes
}

// CodeCounts counts how many records carry each flattened code path.
func CodeCounts(t *Table) map[string]int {
	return CodeCountsAtDepth(t, MaxDepth)
}

// CodeCountsAtDepth counts records by code path truncated to depth levels,
// so a depth of 1 counts top-level codes regardless of their subcodes.
func CodeCountsAtDepth(t *Table, depth int) map[string]int {
	counts := make(map[string]int)
	for r := range t.All() {
		counts[r.Path().Truncate(depth).String()]++
	}

	return counts
}

// CodeCount is the number of records carrying one flattened code path.
type CodeCount struct {
	Code  string `json:"code"  yaml:"code"`
	Count int    `json:"count" yaml:"count"`
}

// RankCounts orders counts by descending count, then by code.
func RankCounts(counts map[string]int) []CodeCount {
	ranked := make([]CodeCount, 0, len(counts))
	for code, n := range counts {
		ranked = append(ranked, CodeCount{Code: code, Count: n})
	}

	slices.SortFunc(ranked, func(a, b CodeCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), strings.Compare(a.Code, b.Code))
	})

	return ranked
}
