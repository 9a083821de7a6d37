package service

import (
	"context"

	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/pkg/redis"
)

// ApplicationCache is a read-through cache of applications by id.
// Implementations swallow their own failures.
type ApplicationCache interface {
	Get(ctx context.Context, id string) (*model.Application, bool)
	Set(ctx context.Context, app *model.Application)
	Invalidate(ctx context.Context, id string)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*model.Application, bool) { return nil, false }
func (noopCache) Set(context.Context, *model.Application) {}
func (noopCache) Invalidate(context.Context, string) {}

type redisApplicationCache struct {
	cache *redis.JSONCache
}

// NewRedisApplicationCache stores applications in c keyed by id.
func NewRedisApplicationCache(c *redis.JSONCache) ApplicationCache {
	return &redisApplicationCache{cache: c}
}

func (r *redisApplicationCache) Get(ctx context.Context, id string) (*model.Application, bool) {
	var app model.Application
	if !r.cache.Get(ctx, id, &app) {
		return nil, false
	}
	return &app, true
}

func (r *redisApplicationCache) Set(ctx context.Context, app *model.Application) {
	r.cache.Set(ctx, app.ID, app)
}

func (r *redisApplicationCache) Invalidate(ctx context.Context, id string) {
	r.cache.Invalidate(ctx, id)
}
