package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) error {
	f.calls++
	return f.err
}

type fakeHandoffRepo struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeHandoffRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

func TestCatalogRefreshJob(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{}
	job, err := NewCatalogRefreshJob(CatalogRefreshJobParams{Logger: logger.Nop(), Catalog: refresher})
	if err != nil {
		t.Fatalf("NewCatalogRefreshJob: %v", err)
	}
	if job.Name() != "catalog_refresh" {
		t.Fatalf("unexpected name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected one refresh, got %d", refresher.calls)
	}

	refresher.err = errors.New("cms down")
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected refresh error to propagate")
	}
}

func TestHandoffRetentionJobUsesCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)
	repo := &fakeHandoffRepo{deletedRows: 7}
	job := newHandoffRetentionJob(t, repo, 48*time.Hour)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := now.Add(-48 * time.Hour); !repo.lastCutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestHandoffRetentionJobDefaultsRetention(t *testing.T) {
	t.Parallel()

	job := newHandoffRetentionJob(t, &fakeHandoffRepo{}, 0)
	if job.retention != defaultHandoffRetention {
		t.Fatalf("expected default retention, got %s", job.retention)
	}
}

func TestHandoffRetentionJobPropagatesErrors(t *testing.T) {
	t.Parallel()

	job := newHandoffRetentionJob(t, &fakeHandoffRepo{err: errors.New("boom")}, time.Hour)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newHandoffRetentionJob(t *testing.T, repo *fakeHandoffRepo, retention time.Duration) *handoffRetentionJob {
	t.Helper()
	jobIface, err := NewHandoffRetentionJob(HandoffRetentionJobParams{
		Logger:     logger.Nop(),
		Repository: repo,
		Retention:  retention,
	})
	if err != nil {
		t.Fatalf("NewHandoffRetentionJob: %v", err)
	}
	job, ok := jobIface.(*handoffRetentionJob)
	if !ok {
		t.Fatalf("expected handoffRetentionJob, got %T", jobIface)
	}
	return job
}
