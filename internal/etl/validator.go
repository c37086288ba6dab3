package etl

import (
	"fmt"

	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
	"github.com/BartekS5/uncoupledetl/pkg/models"
)

// validateUniqueIDs enforces one row per id within a batch. The target
// schema is recreated on every load, so batch-local uniqueness is enough.
func validateUniqueIDs(pokemon []models.Pokemon) error {
	seen := make(map[int]int, len(pokemon))
	for i, p := range pokemon {
		if first, ok := seen[p.ID]; ok {
			return etlerrors.NewValidationError("id",
				fmt.Sprintf("duplicate id %d in records %d and %d", p.ID, first, i))
		}
		seen[p.ID] = i
	}
	return nil
}
