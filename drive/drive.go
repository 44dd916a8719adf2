package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/qualdocs/qualdocs/coding"
)

// Sentinel errors returned by the client.
var (
	ErrListFiles    = errors.New("list files")
	ErrListComments = errors.New("list comments")
	ErrNoFiles      = errors.New("no files found")
)

const (
	// DefaultMaxFiles is the number of most recent files listed.
	DefaultMaxFiles = 250
	// DefaultPageSize is the number of comments requested per page.
	DefaultPageSize = 100

	fileFields    = "nextPageToken, files(id, name)"
	commentFields = "comments,kind,nextPageToken"
)

// File is a listed Drive file.
type File struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Client reads files and comments from Drive.
//
// Create instances with [NewClient].
type Client struct {
	service    *drivev3.Service
	search     string
	clientOpts []option.ClientOption
	maxFiles   int
	pageSize   int
}

// Option configures a [Client].
type Option func(*Client)

// WithSearch keeps only files whose name contains s. Matching is case
// sensitive; an empty string keeps every file.
func WithSearch(s string) Option {
	return func(c *Client) {
		c.search = s
	}
}

// WithMaxFiles sets how many recent files are listed. Values less than 1
// select [DefaultMaxFiles].
func WithMaxFiles(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = DefaultMaxFiles
		}

		c.maxFiles = n
	}
}

// WithPageSize sets how many comments are requested per page. Values less
// than 1 select [DefaultPageSize].
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = DefaultPageSize
		}

		c.pageSize = n
	}
}

// WithClientOptions passes options to the underlying Drive service, such as
// credentials or an endpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// NewClient creates a [Client] with the read-only Drive scope.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	c := &Client{
		maxFiles: DefaultMaxFiles,
		pageSize: DefaultPageSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	clientOpts := append([]option.ClientOption{option.WithScopes(drivev3.DriveReadonlyScope)}, c.clientOpts...)

	svc, err := drivev3.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	c.service = svc

	return c, nil
}

// ListFiles returns the most recent files matching the search string.
// It returns [ErrNoFiles] when Drive lists nothing at all.
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	res, err := c.service.Files.List().
		PageSize(int64(c.maxFiles)).
		Fields(fileFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListFiles, err)
	}

	if len(res.Files) == 0 {
		return nil, ErrNoFiles
	}

	files := make([]File, 0, len(res.Files))

	for _, f := range res.Files {
		if c.search != "" && !strings.Contains(f.Name, c.search) {
			continue
		}

		files = append(files, File{ID: f.Id, Name: f.Name})
	}

	slog.Debug("listed files",
		slog.Int("listed", len(res.Files)),
		slog.Int("matched", len(files)),
		slog.String("search", c.search),
	)

	return files, nil
}

// Comments returns every comment on the file, across all pages.
func (c *Client) Comments(ctx context.Context, fileID string) (coding.CommentList, error) {
	var list coding.CommentList

	err := c.service.Comments.List(fileID).
		PageSize(int64(c.pageSize)).
		Fields(commentFields).
		Pages(ctx, func(page *drivev3.CommentList) error {
			list.Kind = page.Kind

			for _, cm := range page.Comments {
				list.Comments = append(list.Comments, convertComment(cm))
			}

			return nil
		})
	if err != nil {
		return coding.CommentList{}, fmt.Errorf("%w: file %s: %w", ErrListComments, fileID, err)
	}

	return list, nil
}

// Documents lists files and fetches the comments on each, keyed by file
// name. When two files share a name the later one wins.
func (c *Client) Documents(ctx context.Context) (coding.Documents, error) {
	files, err := c.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	docs := make(coding.Documents, len(files))

	for _, f := range files {
		list, err := c.Comments(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("document %q: %w", f.Name, err)
		}

		if _, ok := docs[f.Name]; ok {
			slog.Warn("duplicate document name, keeping later file",
				slog.String("document", f.Name),
				slog.String("file", f.ID),
			)
		}

		docs[f.Name] = list

		slog.Debug("fetched comments",
			slog.String("document", f.Name),
			slog.Int("comments", len(list.Comments)),
		)
	}

	return docs, nil
}

func convertComment(cm *drivev3.Comment) coding.Comment {
	out := coding.Comment{
		ID:          cm.Id,
		HTMLContent: cm.HtmlContent,
	}

	if cm.QuotedFileContent != nil {
		out.QuotedFileContent = &coding.QuotedFileContent{
			MimeType: cm.QuotedFileContent.MimeType,
			Value:    cm.QuotedFileContent.Value,
		}
	}

	if cm.Author != nil {
		out.Author = &coding.Author{DisplayName: cm.Author.DisplayName}
	}

	return out
}
