package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/khrees2412/pipeliner/pkg/models"
)

// fingerprint changes whenever a record is added, removed or rewritten
type fingerprint struct {
	count  int
	newest time.Time
}

func (f fingerprint) equal(o fingerprint) bool {
	return f.count == o.count && f.newest.Equal(o.newest)
}

func (s *Store) fingerprint(ctx context.Context) (fingerprint, error) {
	var stamps []time.Time
	if err := s.scoped(ctx).Pluck("updated_at", &stamps).Error; err != nil {
		return fingerprint{}, fmt.Errorf("poll jobs: %w", err)
	}
	fp := fingerprint{count: len(stamps)}
	for _, t := range stamps {
		if t.After(fp.newest) {
			fp.newest = t
		}
	}
	return fp, nil
}

// Watch polls the database and delivers the full collection every time it
// changes. The channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan []models.JobApplication, error) {
	last, err := s.fingerprint(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []models.JobApplication, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			fp, err := s.fingerprint(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Error("cloud poll failed", "error", err)
				}
				continue
			}
			if fp.equal(last) {
				continue
			}

			jobs, err := s.List(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Error("cloud refresh failed", "error", err)
				}
				continue
			}
			last = fp

			select {
			case out <- jobs:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
