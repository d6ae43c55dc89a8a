package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]any
}

type healthUsecase struct {
	pool    *pgxpool.Pool
	version string
}

func NewHealthUsecase(pool *pgxpool.Pool, version string) HealthUsecase {
	return &healthUsecase{pool: pool, version: version}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]any {
	status := "ok"
	database := "up"
	if err := u.pool.Ping(ctx); err != nil {
		status = "degraded"
		database = "down"
	}
	return map[string]any{
		"status":    status,
		"service":   "ats-backend",
		"version":   u.version,
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
