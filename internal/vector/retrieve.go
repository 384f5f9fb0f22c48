package vector

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// DefaultTopK is the number of chunks returned when no limit is configured.
const DefaultTopK = domain.DefaultTopK

// Retrieve scores every corpus entry against query and returns the k
// highest, best first. Entries with equal scores keep their corpus order.
//
// An empty corpus yields an empty result. k == 0 yields an empty result and
// k < 0 fails with domain.ErrInvalidParameter. The first entry whose length
// differs from the query aborts with domain.ErrDimensionMismatch.
func Retrieve(query []float32, corpus []domain.CorpusEntry, k int) ([]domain.Source, error) {
	if k < 0 {
		return nil, fmt.Errorf("vector: %w: k must not be negative, got %d", domain.ErrInvalidParameter, k)
	}
	if len(corpus) == 0 || k == 0 {
		return []domain.Source{}, nil
	}

	queryNorm := Norm(query)
	scored := make([]domain.Source, len(corpus))
	for i, entry := range corpus {
		score, err := cosineWithNorm(query, queryNorm, entry.Vector)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", entry.ChunkID, err)
		}
		scored[i] = domain.Source{Text: entry.Text, Score: score, ItemID: entry.ItemID}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}
