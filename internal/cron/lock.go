package cron

import (
	"context"

	"github.com/karangtaruna-pekunden/marketplace/pkg/redislock"
)

// LockKeySuffix names the Redis key guarding a scheduled run.
const LockKeySuffix = "cron:worker"

// Lock coordinates exclusive cron runs across worker replicas.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

var _ Lock = (*redislock.Mutex)(nil)
