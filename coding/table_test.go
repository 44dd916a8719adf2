package coding_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualdocs/qualdocs/coding"
	"github.com/qualdocs/qualdocs/stringtest"
)

const interviews = `
	interview-b:
	  comments:
	    - id: c3
	      htmlContent: "Barriers: cost<br>Motivation"
	      quotedFileContent: {value: "too expensive"}
	      author: {displayName: Ana}
	interview-a:
	  kind: drive#commentList
	  comments:
	    - id: c1
	      htmlContent: "Barriers: time, cost"
	      quotedFileContent: {value: "no time"}
	      author: {displayName: Ben}
	    - id: c2
	      htmlContent: "Motivation: Peers: Friends"
	      quotedFileContent: {value: "my friend&#39;s idea"}
	      author: {displayName: Ben}
`

func buildInterviews(t *testing.T, opts ...coding.Option) *coding.Table {
	t.Helper()

	docs, err := coding.ReadDocuments([]byte(stringtest.Input(interviews)))
	require.NoError(t, err)

	table, err := coding.NewBuilder(opts...).Build(docs)
	require.NoError(t, err)

	return table
}

func TestBuild(t *testing.T) {
	t.Parallel()

	table := buildInterviews(t)

	want := []coding.Record{
		{Code: "barriers", Subcode: "cost", Document: "interview-a", Text: "no time", CommentID: "c1", Annotator: "Ben"},
		{Code: "barriers", Subcode: "cost", Document: "interview-b", Text: "too expensive", CommentID: "c3", Annotator: "Ana"},
		{Code: "barriers", Subcode: "time", Document: "interview-a", Text: "no time", CommentID: "c1", Annotator: "Ben"},
		{Code: "motivation", Document: "interview-b", Text: "too expensive", CommentID: "c3", Annotator: "Ana"},
		{
			Code: "motivation", Subcode: "peers", SubSubcode: "friends",
			Document: "interview-a", Text: "my friend's idea", CommentID: "c2", Annotator: "Ben",
		},
	}

	if diff := cmp.Diff(want, table.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 5, table.Len())
	assert.Equal(t, []string{"interview-a", "interview-b"}, table.Documents())
}

func TestBuildTableNormalizer(t *testing.T) {
	t.Parallel()

	docs := coding.Documents{
		"doc": {Comments: []coding.Comment{
			comment("c1", "Foo: x", "Q"),
		}},
	}

	n := coding.NormalizerFromMap(map[string]string{"foo": "bar"})

	table, err := coding.BuildTable(docs, n)
	require.NoError(t, err)

	assert.Equal(t, []string{"bar:x"}, coding.CodeList(table))
}

func TestBuildLineBreak(t *testing.T) {
	t.Parallel()

	table := buildInterviews(t, coding.WithLineBreak(""))

	assert.Contains(t, coding.CodeList(table), "barriers:cost<br>motivation")
}

func TestBuildSortOrder(t *testing.T) {
	t.Parallel()

	docs := coding.Documents{
		"doc": {Comments: []coding.Comment{
			comment("c1", "b", "Q"),
			comment("c2", "a", "Q"),
		}},
	}

	table, err := coding.BuildTable(docs, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, coding.CodeList(table))
}

func TestBuildSameKeyKeepsSourceOrder(t *testing.T) {
	t.Parallel()

	docs := coding.Documents{
		"doc": {Comments: []coding.Comment{
			comment("c1", "top", "first"),
			comment("c2", "top", "second"),
			comment("c3", "top", "third"),
		}},
	}

	table, err := coding.BuildTable(docs, nil)
	require.NoError(t, err)

	var texts []string
	for r := range table.All() {
		texts = append(texts, r.Text)
	}

	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		docs coding.Documents
		err  error
	}{
		"too many levels": {
			docs: coding.Documents{"doc": {Comments: []coding.Comment{
				comment("c1", "a: b: c: d", "Q"),
			}}},
			err: coding.ErrMalformedAnnotation,
		},
		"too many levels in second annotation": {
			docs: coding.Documents{"doc": {Comments: []coding.Comment{
				comment("c1", "fine<br>a:b:c:d", "Q"),
			}}},
			err: coding.ErrMalformedAnnotation,
		},
		"missing quoted text": {
			docs: coding.Documents{"doc": {Comments: []coding.Comment{
				{ID: "c1", HTMLContent: "top", Author: &coding.Author{DisplayName: "Ana"}},
			}}},
			err: coding.ErrMissingCommentField,
		},
		"missing author": {
			docs: coding.Documents{"doc": {Comments: []coding.Comment{
				{ID: "c1", HTMLContent: "top", QuotedFileContent: &coding.QuotedFileContent{Value: "Q"}},
			}}},
			err: coding.ErrMissingCommentField,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			table, err := coding.BuildTable(tc.docs, nil)
			require.ErrorIs(t, err, tc.err)
			assert.Nil(t, table)
		})
	}
}

func TestBuildSkipsBlankComments(t *testing.T) {
	t.Parallel()

	docs := coding.Documents{
		"doc": {Comments: []coding.Comment{
			comment("c1", "<br> <br>", "Q"),
			comment("c2", "top", "Q"),
		}},
	}

	table, err := coding.BuildTable(docs, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"top"}, coding.CodeList(table))
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	table := buildInterviews(t)

	for r := range table.All() {
		p, err := coding.ParseCodePath(r.Path().String())
		require.NoError(t, err)
		assert.Equal(t, r.Path(), p)
	}
}

func TestCodeList(t *testing.T) {
	t.Parallel()

	want := []string{
		"barriers:cost",
		"barriers:cost",
		"barriers:time",
		"motivation",
		"motivation:peers:friends",
	}

	assert.Equal(t, want, coding.CodeList(buildInterviews(t)))
}

func TestCodeCounts(t *testing.T) {
	t.Parallel()

	table := coding.NewTable(
		coding.Record{Code: "top", Subcode: "sub", Document: "a"},
		coding.Record{Code: "top", Document: "a"},
		coding.Record{Code: "top", Subcode: "sub", Document: "b"},
	)

	assert.Equal(t, map[string]int{"top:sub": 2, "top": 1}, coding.CodeCounts(table))
}

func TestCodeCountsAtDepth(t *testing.T) {
	t.Parallel()

	table := buildInterviews(t)

	tcs := map[string]struct {
		want  map[string]int
		depth int
	}{
		"top level": {
			depth: 1,
			want:  map[string]int{"barriers": 3, "motivation": 2},
		},
		"two levels": {
			depth: 2,
			want:  map[string]int{"barriers:cost": 2, "barriers:time": 1, "motivation": 1, "motivation:peers": 1},
		},
		"all levels": {
			depth: coding.MaxDepth,
			want: map[string]int{
				"barriers:cost":            2,
				"barriers:time":            1,
				"motivation":               1,
				"motivation:peers:friends": 1,
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, coding.CodeCountsAtDepth(table, tc.depth))
		})
	}
}

func TestRankCounts(t *testing.T) {
	t.Parallel()

	got := coding.RankCounts(map[string]int{"b": 1, "a": 1, "c": 3})

	assert.Equal(t, []coding.CodeCount{
		{Code: "c", Count: 3},
		{Code: "a", Count: 1},
		{Code: "b", Count: 1},
	}, got)
}

func TestTableFilter(t *testing.T) {
	t.Parallel()

	table := buildInterviews(t)

	barriers := table.Filter(coding.CodePath{Code: "barriers"})
	assert.Equal(t, 3, barriers.Len())

	cost := table.Filter(coding.CodePath{Code: "barriers", Subcode: "cost"})
	assert.Equal(t, []string{"interview-a", "interview-b"}, cost.Documents())

	assert.Zero(t, table.Filter(coding.CodePath{Code: "missing"}).Len())
}

func comment(id, content, quoted string) coding.Comment {
	return coding.Comment{
		ID:                id,
		HTMLContent:       content,
		QuotedFileContent: &coding.QuotedFileContent{Value: quoted},
		Author:            &coding.Author{DisplayName: "Ana"},
	}
}
