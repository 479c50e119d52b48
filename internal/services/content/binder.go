package content

import (
	"context"
	"fmt"
	"streamcatalog/proj/internal/domain/fields"
	"streamcatalog/proj/internal/domain/models"
)

type GenreResolver interface {
	Resolve(ctx context.Context, in fields.GenreInput) ([]models.GenreReference, error)
}

// Binder replaces the genre input of content documents with resolved references
// before they are written.
type Binder struct {
	resolver GenreResolver
}

func NewBinder(resolver GenreResolver) *Binder {
	return &Binder{resolver: resolver}
}

func (b *Binder) Bind(ctx context.Context, doc *models.Content, in fields.GenreInput) error {
	refs, err := b.resolver.Resolve(ctx, in)
	if err != nil {
		return err
	}
	doc.Genre = refs
	return nil
}

// BindMany resolves every document first and only then assigns the results,
// so a failure leaves all documents untouched.
func (b *Binder) BindMany(ctx context.Context, docs []*models.Content, inputs []fields.GenreInput) error {
	if len(docs) != len(inputs) {
		return fmt.Errorf("bind: %d documents but %d genre inputs", len(docs), len(inputs))
	}
	resolved := make([][]models.GenreReference, len(docs))
	for i, in := range inputs {
		refs, err := b.resolver.Resolve(ctx, in)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		resolved[i] = refs
	}
	for i, doc := range docs {
		doc.Genre = resolved[i]
	}
	return nil
}
