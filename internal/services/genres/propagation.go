package genres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"streamcatalog/proj/internal/metrics"

	"github.com/google/uuid"
)

// GenreRefHolder is a collection that embeds genre references.
type GenreRefHolder interface {
	RenameGenre(ctx context.Context, refID string, name string) (int64, error)
	CountGenreRefs(ctx context.Context, refID string) (int, error)
}

type Dependent struct {
	Name  string
	Store GenreRefHolder
}

// Propagator rewrites the name of embedded genre copies after a rename.
// Collections are updated one by one with no transaction spanning them.
type Propagator struct {
	log        *slog.Logger
	dependents []Dependent
}

func NewPropagator(log *slog.Logger, dependents ...Dependent) *Propagator {
	return &Propagator{
		log:        log,
		dependents: dependents,
	}
}

// Propagate keeps going after a failing collection and returns the joined errors.
func (p *Propagator) Propagate(ctx context.Context, refID uuid.UUID, name string) error {
	const op = "genres.Propagator.Propagate"
	log := p.log.With("op", op, "refId", refID, "name", name)
	var errs []error
	for _, d := range p.dependents {
		updated, err := d.Store.RenameGenre(ctx, refID.String(), name)
		if err != nil {
			log.Error("failed to propagate genre rename", "collection", d.Name, "errMsg", err.Error())
			metrics.GenrePropagationFailures.WithLabelValues(d.Name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", d.Name, err))
			continue
		}
		metrics.GenrePropagationUpdates.WithLabelValues(d.Name).Add(float64(updated))
		log.Info("genre rename propagated", "collection", d.Name, "updated", updated)
	}
	return errors.Join(errs...)
}

// References counts embedded copies of the genre across all dependents.
func (p *Propagator) References(ctx context.Context, refID uuid.UUID) (int, error) {
	total := 0
	for _, d := range p.dependents {
		n, err := d.Store.CountGenreRefs(ctx, refID.String())
		if err != nil {
			return 0, fmt.Errorf("%s: %w", d.Name, err)
		}
		total += n
	}
	return total, nil
}
