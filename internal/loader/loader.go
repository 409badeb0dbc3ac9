// Package loader performs the one-time season load: bulk snapshot,
// per-player history fan-out, then catalog construction.
package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fplpulse/analytics-api/internal/catalog"
	"github.com/fplpulse/analytics-api/internal/models"
)

// Source is the data source the loader pulls from.
type Source interface {
	FetchSeasonBulk(ctx context.Context) (*models.Bootstrap, error)
	FetchPlayerHistory(ctx context.Context, id int) ([]models.HistoryEntry, error)
}

type Loader struct {
	src         Source
	concurrency int
	logger      *zap.SugaredLogger
}

func New(src Source, concurrency int, logger *zap.Logger) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loader{src: src, concurrency: concurrency, logger: logger.Sugar()}
}

// Load fetches the bulk snapshot, fans out history fetches with bounded
// concurrency, and builds the catalog. Any fetch failure aborts the
// load; retry policy, if any, lives in the data source.
func (l *Loader) Load(ctx context.Context) (*catalog.Catalog, error) {
	start := time.Now()

	bulk, err := l.src.FetchSeasonBulk(ctx)
	if err != nil {
		return nil, fmt.Errorf("season bulk: %w", err)
	}
	l.logger.Infow("Fetched season snapshot",
		"players", len(bulk.Elements), "teams", len(bulk.Teams))

	histories := make(map[int][]models.HistoryEntry, len(bulk.Elements))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, el := range bulk.Elements {
		id := el.ID
		g.Go(func() error {
			h, err := l.src.FetchPlayerHistory(ctx, id)
			if err != nil {
				return fmt.Errorf("history for player %d: %w", id, err)
			}
			mu.Lock()
			histories[id] = h
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := catalog.Load(bulk, histories)
	if err != nil {
		return nil, err
	}
	l.logger.Infow("Catalog loaded",
		"players", c.Len(), "elapsed", time.Since(start))
	return c, nil
}
