package coding

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Documents maps a document name to the comments listed on it.
type Documents map[string]CommentList

// CommentList is one document's comment listing, shaped like the Drive v3
// comments.list response.
type CommentList struct {
	Kind          string    `json:"kind,omitempty"          yaml:"kind,omitempty"`
	NextPageToken string    `json:"nextPageToken,omitempty" yaml:"nextPageToken,omitempty"`
	Comments      []Comment `json:"comments"                yaml:"comments"               jsonschema:"comments attached to the document"`
}

// Comment is a single annotation comment.
type Comment struct {
	QuotedFileContent *QuotedFileContent `json:"quotedFileContent,omitempty" yaml:"quotedFileContent,omitempty" jsonschema:"the document passage the comment is anchored to"`
	Author            *Author            `json:"author,omitempty"            yaml:"author,omitempty"`
	ID                string             `json:"id"                          yaml:"id"                          jsonschema:"comment identifier"`
	HTMLContent       string             `json:"htmlContent"                 yaml:"htmlContent"                 jsonschema:"comment text holding one or more annotations"`
}

// QuotedFileContent is the passage a comment is anchored to.
type QuotedFileContent struct {
	MimeType string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	Value    string `json:"value"              yaml:"value"`
}

// Author identifies the person who wrote a comment.
type Author struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
}

// Validate returns [ErrMissingCommentField] naming every required field the
// comment lacks.
func (c Comment) Validate() error {
	var missing []string

	if c.ID == "" {
		missing = append(missing, "id")
	}

	if c.HTMLContent == "" {
		missing = append(missing, "htmlContent")
	}

	if c.QuotedFileContent == nil || c.QuotedFileContent.Value == "" {
		missing = append(missing, "quotedFileContent.value")
	}

	if c.Author == nil || c.Author.DisplayName == "" {
		missing = append(missing, "author.displayName")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCommentField, strings.Join(missing, ", "))
	}

	return nil
}

// ReadDocuments decodes a snapshot of [Documents] from YAML or JSON.
func ReadDocuments(data []byte) (Documents, error) {
	var docs Documents

	err := yaml.Unmarshal(data, &docs)
	if err != nil {
		return nil, fmt.Errorf("%w: documents: %w", ErrInvalidInput, err)
	}

	if docs == nil {
		docs = Documents{}
	}

	return docs, nil
}

// DocumentsSchema returns the JSON Schema accepted by [ReadDocuments].
func DocumentsSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[Documents](nil)
	if err != nil {
		return nil, fmt.Errorf("infer documents schema: %w", err)
	}

	schema.Schema = "http://json-schema.org/draft-07/schema#"
	schema.Title = "qualdocs documents"
	schema.Description = "Document name to comment listing, as returned by the Drive comments API."

	return schema, nil
}
