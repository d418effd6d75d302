package domain

import "github.com/google/uuid"

// Metadata keys used to tag documents with their owning entity.
const (
	MetadataProductID = "productId"
	MetadataOrderID   = "orderId"
)

// Document is the opaque unit shipped to the semantic index: free text plus
// a metadata mapping used for filtered deletion. Documents are never read
// back into relational state; a stale document for the same entity must be
// purged before its replacement is added.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// NewDocument assigns a fresh random identifier to the given content.
func NewDocument(content string, metadata map[string]string) Document {
	return Document{
		ID:       uuid.NewString(),
		Content:  content,
		Metadata: metadata,
	}
}

// MetadataValue returns the value for key, or empty when unset.
func (d Document) MetadataValue(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
