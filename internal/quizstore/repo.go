package quizstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

type ListOpts struct {
	Q      string // substring of filename or title
	Limit  int
	Offset int
}

func (o ListOpts) normalized() ListOpts {
	if o.Limit <= 0 || o.Limit > 200 {
		o.Limit = 50
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

type Store interface {
	Put(ctx context.Context, d Document) error
	Get(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, opts ListOpts) ([]Summary, error) // newest first
	Delete(ctx context.Context, id string) error
}
