package knowledge

// Document is a knowledge base chunk returned by retrieval. Metadata
// carries at least the source path or URL the chunk was ingested from.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Source returns the origin of the document, or "" when unknown.
func (d Document) Source() string {
	return d.Metadata["source"]
}
