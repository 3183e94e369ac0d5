package embeddings

import "context"

// Provider generates vector embeddings for text.
type Provider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Name() string
}
