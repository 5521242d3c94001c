package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateSection(ctx context.Context, in Section) error
	GetSection(ctx context.Context, id string) (Section, error)
	UpdateSection(ctx context.Context, in Section) error
	// DeleteSection removes the section and, via foreign keys, every item in it.
	DeleteSection(ctx context.Context, id string) error
	ListSections(ctx context.Context) ([]Section, error)

	CreateItem(ctx context.Context, in Item) error
	GetItem(ctx context.Context, id string) (Item, error)
	UpdateItem(ctx context.Context, in Item) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, filter ItemListFilter) ([]Item, error)
}
