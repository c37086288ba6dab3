package etl

import (
	"context"

	"github.com/BartekS5/uncoupledetl/pkg/database"
	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
	"github.com/BartekS5/uncoupledetl/pkg/models"
)

// Loader hands a transformed batch to a load strategy. It does not look at
// the records.
type Loader[T any] struct {
	Data []T
}

func NewLoader[T any](data []T) *Loader[T] {
	return &Loader[T]{Data: data}
}

func (l *Loader[T]) LoadStrategy(ctx context.Context, strategy LoadStrategy[T], target string) error {
	return strategy(ctx, l.Data, target)
}

// Dispatch picks LoadToMongo or LoadToDatabase from the target scheme.
func Dispatch[T models.Row](ctx context.Context, records []T, target string) error {
	t, err := database.ParseTarget(target)
	if err != nil {
		return etlerrors.NewPersistenceError("connect", target, err)
	}
	if t.Document {
		return LoadToMongo(ctx, records, target)
	}
	return LoadToDatabase(ctx, records, target)
}
