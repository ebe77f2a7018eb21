package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/kitchen-service/kitchen/kitchen/logger"
)

// QueryHook logs every query bun runs.
type QueryHook struct{}

var _ bun.QueryHook = (*QueryHook)(nil)

func NewQueryHook() *QueryHook {
	return &QueryHook{}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	err := event.Err
	// a missing row is an expected outcome for lookups
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	logger.LogQuery(event.Operation(), event.Query, time.Since(event.StartTime), err)
}
