package knowledge

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/internal/metrics"
	"cryptoadvisor/pkg/errors"
	"cryptoadvisor/pkg/logger"
)

const variantPromptTemplate = `You are an AI language model assistant. Your task is to generate %d
different versions of the given user question to retrieve relevant documents from a vector
database. Provide these alternative questions separated by newlines. Original question: %s
`

// Searcher finds the limit nearest documents to a query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}

// Config controls multi-query retrieval.
type Config struct {
	TopK         int
	FusionK      int
	VariantCount int
	Model        string
}

// Retriever runs multi-query retrieval: it rewrites the question into
// several variants, searches each, and fuses the rankings.
type Retriever struct {
	searcher Searcher
	chat     ai.ChatProvider
	cfg      Config
	log      *zap.SugaredLogger
}

func NewRetriever(searcher Searcher, chat ai.ChatProvider, cfg Config) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.FusionK <= 0 {
		cfg.FusionK = DefaultFusionK
	}
	if cfg.VariantCount <= 0 {
		cfg.VariantCount = 4
	}
	return &Retriever{
		searcher: searcher,
		chat:     chat,
		cfg:      cfg,
		log:      logger.Get().Named("retriever"),
	}
}

// QueryVariations asks the model for reworded versions of the question
// and returns the original question followed by the variants. On model
// failure the original question alone is returned.
func (r *Retriever) QueryVariations(ctx context.Context, question string) []string {
	resp, err := r.chat.Chat(ctx, ai.ChatRequest{
		Model: r.cfg.Model,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: fmt.Sprintf(variantPromptTemplate, r.cfg.VariantCount, question)},
		},
		Temperature: 0,
	})
	if err != nil {
		r.log.Warnw("query variation generation failed, using original query only", "error", err)
		return []string{question}
	}

	queries := []string{question}
	for _, line := range strings.Split(resp.Content, "\n") {
		if q := strings.TrimSpace(line); q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// Retrieve returns the fused top-k documents for the query. Individual
// variant searches may fail without failing the whole call; an error is
// returned only when every search failed.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Document, error) {
	variations := r.QueryVariations(ctx, query)

	var (
		resultLists [][]Document
		lastErr     error
	)
	for _, variation := range variations {
		docs, err := r.searcher.Search(ctx, variation, r.cfg.TopK*2)
		if err != nil {
			lastErr = err
			r.log.Warnw("variant search failed", "query", variation, "error", err)
			continue
		}
		resultLists = append(resultLists, docs)
	}

	if len(resultLists) == 0 {
		metrics.RecordRetrieval(0, lastErr)
		return nil, errors.Wrap(errors.ErrRetrieverUnavailable, lastErr.Error())
	}

	fused := ReciprocalRankFusion(resultLists, r.cfg.FusionK)
	if len(fused) > r.cfg.TopK {
		fused = fused[:r.cfg.TopK]
	}
	metrics.RecordRetrieval(len(fused), nil)
	r.log.Debugw("retrieval complete", "variants", len(variations), "searched", len(resultLists), "returned", len(fused))
	return fused, nil
}
