package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
)

const defaultHandoffRetention = 90 * 24 * time.Hour

type handoffPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type HandoffRetentionJobParams struct {
	Logger     *logger.Logger
	Repository handoffPurger
	Retention  time.Duration
}

func NewHandoffRetentionJob(params HandoffRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("handoff repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultHandoffRetention
	}
	return &handoffRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type handoffRetentionJob struct {
	logg      *logger.Logger
	repo      handoffPurger
	retention time.Duration
	now       func() time.Time
}

func (j *handoffRetentionJob) Name() string { return "handoff_retention" }

func (j *handoffRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("handoff retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"retention":    j.retention.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "handoff retention cleanup complete")
	return nil
}
