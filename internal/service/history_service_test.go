package service

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/dev-toolbox-service/internal/dto"
	"github.com/haierkeys/dev-toolbox-service/pkg/code"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
}

func TestHistoryListPagination(t *testing.T) {
	repo := newMemRepo(fixedNow)
	base := fixedNow().Add(-time.Hour)
	ids := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		ids = append(ids, repo.seed("10.0.0.1", 1, base.Add(time.Duration(i)*time.Second)).ID)
	}

	svc := NewHistoryService(repo, nil, nil, WithHistoryClock(fixedNow))

	list, pager, err := svc.List(context.Background(), &dto.HistoryListRequest{Page: "2", Limit: "10"})
	require.NoError(t, err)
	require.Len(t, list, 10)
	// 倒序第 11..20 条
	for i, r := range list {
		assert.Equal(t, ids[24-10-i], r.ID)
	}
	assert.Equal(t, 2, pager.Page)
	assert.Equal(t, 10, pager.Limit)
	assert.Equal(t, int64(25), pager.Total)
	assert.Equal(t, 3, pager.Pages)
}

func TestHistoryListHugePageIsEmpty(t *testing.T) {
	repo := newMemRepo(fixedNow)
	for i := 0; i < 3; i++ {
		repo.seed("10.0.0.1", 1, fixedNow().Add(-time.Duration(i)*time.Minute))
	}
	svc := NewHistoryService(repo, nil, &AppServiceConfig{MaxPageSize: 100})

	list, pager, err := svc.List(context.Background(), &dto.HistoryListRequest{Page: "288230376151711745", Limit: "64"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 288230376151711745, pager.Page)
	assert.Equal(t, int64(3), pager.Total)
}

func TestHistoryListDefaults(t *testing.T) {
	repo := newMemRepo(fixedNow)
	for i := 0; i < 3; i++ {
		repo.seed("10.0.0.1", 1, fixedNow().Add(-time.Duration(i)*time.Minute))
	}
	repo.seed("10.0.0.2", 1, fixedNow())

	svc := NewHistoryService(repo, nil, &AppServiceConfig{MaxPageSize: 100})

	tests := []struct {
		name      string
		params    *dto.HistoryListRequest
		wantPage  int
		wantLimit int
		wantTotal int64
	}{
		{"empty", &dto.HistoryListRequest{}, 1, 50, 4},
		{"non-numeric", &dto.HistoryListRequest{Page: "abc", Limit: "xyz"}, 1, 50, 4},
		{"non-positive", &dto.HistoryListRequest{Page: "0", Limit: "-5"}, 1, 50, 4},
		{"clamped", &dto.HistoryListRequest{Limit: "1000"}, 1, 100, 4},
		{"by ip", &dto.HistoryListRequest{IP: "10.0.0.2"}, 1, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, pager, err := svc.List(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, pager.Page)
			assert.Equal(t, tt.wantLimit, pager.Limit)
			assert.Equal(t, tt.wantTotal, pager.Total)
		})
	}
}

func TestHistoryRecordFormattedDate(t *testing.T) {
	repo := newMemRepo(fixedNow)
	at := time.Date(2024, 3, 5, 17, 4, 9, 0, time.Local)
	h := repo.seed("10.0.0.1", 7, at)

	svc := NewHistoryService(repo, nil, nil)
	rec, err := svc.Get(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, rec.ID)
	assert.Equal(t, "10.0.0.1", rec.OriginAddress)
	assert.Equal(t, int64(7), rec.ProcessingTime)
	assert.Equal(t, "2024-03-05 17:04:09", rec.FormattedDate)
}

func TestHistoryStats(t *testing.T) {
	repo := newMemRepo(fixedNow)
	svc := NewHistoryService(repo, nil, nil, WithHistoryClock(fixedNow))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &dto.HistoryStats{}, stats)

	repo.seed("10.0.0.1", 2, fixedNow().Add(-48*time.Hour))
	repo.seed("10.0.0.2", 4, fixedNow().Add(-time.Hour))
	repo.seed("10.0.0.1", 6, fixedNow())

	stats, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRecords)
	assert.Equal(t, int64(2), stats.TodayRecords)
	assert.Equal(t, int64(2), stats.UniqueIPs)
	assert.InDelta(t, 4.0, stats.AvgProcessingTime, 0.0001)
}

func TestHistoryStatsSurvivesFirstCallerCancel(t *testing.T) {
	repo := newMemRepo(fixedNow)
	repo.seed("10.0.0.1", 2, fixedNow())
	repo.gate = make(chan struct{})
	repo.entered = make(chan struct{}, 1)
	svc := NewHistoryService(repo, nil, nil, WithHistoryClock(fixedNow))

	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()
	first := make(chan error, 1)
	go func() {
		_, err := svc.Stats(ctx1)
		first <- err
	}()
	<-repo.entered

	type result struct {
		stats *dto.HistoryStats
		err   error
	}
	second := make(chan result, 1)
	go func() {
		st, err := svc.Stats(context.Background())
		second <- result{st, err}
	}()
	// 让第二个调用方加入同一次计算
	time.Sleep(100 * time.Millisecond)

	cancel1()
	select {
	case err := <-first:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(repo.gate)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Equal(t, int64(1), res.stats.TotalRecords)
		assert.InDelta(t, 2.0, res.stats.AvgProcessingTime, 0.0001)
	case <-time.After(2 * time.Second):
		t.Fatal("second caller did not return")
	}
}

func TestHistoryStatsTimeout(t *testing.T) {
	repo := newMemRepo(fixedNow)
	repo.gate = make(chan struct{})
	repo.entered = make(chan struct{}, 1)
	defer close(repo.gate)
	svc := NewHistoryService(repo, nil, &AppServiceConfig{StatsTimeout: 50 * time.Millisecond})

	_, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, code.ErrorPersistence)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHistoryCleanup(t *testing.T) {
	repo := newMemRepo(fixedNow)
	cutoff := fixedNow().Add(-DefaultHistoryRetention)
	repo.seed("10.0.0.1", 1, cutoff.Add(-time.Second))
	repo.seed("10.0.0.1", 1, cutoff)
	repo.seed("10.0.0.1", 1, fixedNow())

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	svc := NewHistoryService(repo, nil, nil, WithHistoryClock(fixedNow), WithHistoryMetrics(m))

	deleted, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)

	assert.Equal(t, 1.0, counterValue(t, reg, "toolbox_history_deleted_total"))
}

func TestHistoryCleanupRetentionConfig(t *testing.T) {
	repo := newMemRepo(fixedNow)
	repo.seed("10.0.0.1", 1, fixedNow().Add(-36*time.Hour))
	repo.seed("10.0.0.1", 1, fixedNow().Add(-12*time.Hour))

	svc := NewHistoryService(repo, nil, &AppServiceConfig{HistoryRetention: "1d"}, WithHistoryClock(fixedNow))
	deleted, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestHistoryGetAndDeleteNotFound(t *testing.T) {
	svc := NewHistoryService(newMemRepo(fixedNow), nil, nil)

	_, err := svc.Get(context.Background(), "00000000-0000-4000-8000-999999999999")
	assert.ErrorIs(t, err, code.ErrorHistoryNotFound)

	err = svc.Delete(context.Background(), "00000000-0000-4000-8000-999999999999")
	assert.ErrorIs(t, err, code.ErrorHistoryNotFound)
}

func TestHistoryDelete(t *testing.T) {
	repo := newMemRepo(fixedNow)
	h := repo.seed("10.0.0.1", 1, fixedNow())
	svc := NewHistoryService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), h.ID))
	_, err := svc.Get(context.Background(), h.ID)
	assert.ErrorIs(t, err, code.ErrorHistoryNotFound)
}

func TestHistoryStoreFailure(t *testing.T) {
	repo := newMemRepo(fixedNow)
	repo.fail = errStoreDown
	svc := NewHistoryService(repo, nil, nil)

	_, _, err := svc.List(context.Background(), &dto.HistoryListRequest{})
	assert.ErrorIs(t, err, code.ErrorPersistence)

	_, err = svc.Stats(context.Background())
	assert.ErrorIs(t, err, code.ErrorPersistence)

	_, err = svc.Cleanup(context.Background())
	assert.ErrorIs(t, err, code.ErrorPersistence)

	_, err = svc.Get(context.Background(), "x")
	assert.ErrorIs(t, err, code.ErrorPersistence)
	assert.ErrorIs(t, err, errStoreDown)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var sum float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}
