package domain

import "fmt"

// DocumentSummary is one entry of a document-store page.
// It is read-only and authoritative only for the page it came from.
type DocumentSummary struct {
	// ID is the opaque document identifier, unique within a page.
	ID string `json:"doc_id" yaml:"doc_id"`

	// Title is the document abstract shown as its title.
	Title string `json:"title" yaml:"title"`

	// Author is the document author.
	Author string `json:"author" yaml:"author"`

	// Date is the creation date as formatted by the store.
	Date string `json:"date" yaml:"date"`

	// ThumbnailURL references the document thumbnail.
	ThumbnailURL string `json:"thumbnail_url" yaml:"thumbnail_url"`
}

// DisplayTitle returns the title used when the document is opened.
func (d *DocumentSummary) DisplayTitle() string {
	return fmt.Sprintf("%s (ID: %s)", d.Title, d.ID)
}

// PageQuery identifies one page of the document list.
type PageQuery struct {
	// Page is the 1-based page number.
	Page int

	// Search is an optional free-text search term.
	Search string
}

// DocumentPage is one page of documents as returned by the store.
type DocumentPage struct {
	Documents      []DocumentSummary `json:"documents" yaml:"documents"`
	Page           int               `json:"page" yaml:"page"`
	TotalPages     int               `json:"total_pages" yaml:"total_pages"`
	TotalDocuments int               `json:"total_documents" yaml:"total_documents"`
}

// DocumentImage is the full-size image of a single document.
type DocumentImage struct {
	// DocumentID is the document the image belongs to.
	DocumentID string

	// Bytes is the raw image payload.
	Bytes []byte

	// ContentType is the MIME type reported by the store, if any.
	ContentType string
}

// DisplayResource is the transient, decoded copy of a DocumentImage
// that the viewer shows. It must be released exactly once.
type DisplayResource struct {
	// ID uniquely identifies the resource for its lifetime.
	ID string

	// DocumentID is the document the resource was created for.
	DocumentID string

	// Path is where the resource can be opened by an image viewer.
	Path string

	// Format is the decoded image format (e.g. "jpeg").
	Format string

	// Width and Height are the decoded pixel dimensions.
	Width  int
	Height int
}
