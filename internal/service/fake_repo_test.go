package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/haierkeys/dev-toolbox-service/internal/domain"
	"github.com/haierkeys/dev-toolbox-service/pkg/transform"
)

var errStoreDown = errors.New("store unavailable")

// memRepo is an in-memory JSONHistoryRepository
type memRepo struct {
	mu      sync.Mutex
	records map[string]*domain.JSONHistory
	seq     int
	now     func() time.Time
	fail    error
	calls   map[string]int

	// gate, when set, holds Count until closed; entered is signalled on arrival
	gate    chan struct{}
	entered chan struct{}
}

func newMemRepo(now func() time.Time) *memRepo {
	return &memRepo{records: map[string]*domain.JSONHistory{}, now: now, calls: map[string]int{}}
}

func (r *memRepo) hit(name string) error {
	r.calls[name]++
	return r.fail
}

func (r *memRepo) sorted(origin string) []*domain.JSONHistory {
	out := make([]*domain.JSONHistory, 0, len(r.records))
	for _, h := range r.records {
		if origin == "" || h.OriginAddress == origin {
			c := *h
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memRepo) Create(ctx context.Context, h *domain.JSONHistory) (*domain.JSONHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Create"); err != nil {
		return nil, err
	}
	if !transform.IsJSON(h.OriginalJSON) || !transform.IsJSON(h.FormattedJSON) {
		return nil, fmt.Errorf("%w: test", domain.ErrInvalidJSONData)
	}
	r.seq++
	c := *h
	c.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", r.seq)
	c.CreatedAt = r.now()
	c.UpdatedAt = c.CreatedAt
	r.records[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*domain.JSONHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("GetByID"); err != nil {
		return nil, err
	}
	h, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	c := *h
	return &c, nil
}

func (r *memRepo) ListRecent(ctx context.Context, limit int) ([]*domain.JSONHistory, error) {
	return r.List(ctx, "", 0, limit)
}

func (r *memRepo) ListByOrigin(ctx context.Context, origin string, limit int) ([]*domain.JSONHistory, error) {
	return r.List(ctx, origin, 0, limit)
}

func (r *memRepo) List(ctx context.Context, origin string, offset, limit int) ([]*domain.JSONHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("List"); err != nil {
		return nil, err
	}
	all := r.sorted(origin)
	if offset >= len(all) {
		return []*domain.JSONHistory{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memRepo) wait(ctx context.Context) error {
	if r.gate == nil {
		return nil
	}
	select {
	case r.entered <- struct{}{}:
	default:
	}
	select {
	case <-r.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *memRepo) Count(ctx context.Context, origin string) (int64, error) {
	if err := r.wait(ctx); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Count"); err != nil {
		return 0, err
	}
	return int64(len(r.sorted(origin))), nil
}

func (r *memRepo) CountSince(ctx context.Context, t time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("CountSince"); err != nil {
		return 0, err
	}
	var n int64
	for _, h := range r.records {
		if !h.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CountDistinctOrigins(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("CountDistinctOrigins"); err != nil {
		return 0, err
	}
	seen := map[string]struct{}{}
	for _, h := range r.records {
		seen[h.OriginAddress] = struct{}{}
	}
	return int64(len(seen)), nil
}

func (r *memRepo) AvgProcessingTime(ctx context.Context) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("AvgProcessingTime"); err != nil {
		return 0, false, err
	}
	if len(r.records) == 0 {
		return 0, false, nil
	}
	var sum int64
	for _, h := range r.records {
		sum += h.ProcessingTime
	}
	return float64(sum) / float64(len(r.records)), true, nil
}

func (r *memRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("DeleteOlderThan"); err != nil {
		return 0, err
	}
	var n int64
	for id, h := range r.records {
		if h.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("Delete"); err != nil {
		return false, err
	}
	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

// seed inserts a record with an explicit creation time
func (r *memRepo) seed(ip string, ms int64, at time.Time) *domain.JSONHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	h := &domain.JSONHistory{
		ID:             fmt.Sprintf("00000000-0000-4000-8000-%012d", r.seq),
		OriginalJSON:   `{"a":1}`,
		FormattedJSON:  "{\n  \"a\": 1\n}",
		OriginAddress:  ip,
		ProcessingTime: ms,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	r.records[h.ID] = h
	return h
}
