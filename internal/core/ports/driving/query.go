package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// QueryService answers questions from stored knowledge.
type QueryService interface {
	// Query answers question using the most similar stored chunks.
	Query(ctx context.Context, question string) (*domain.Answer, error)
}
