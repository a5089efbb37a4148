package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
	"github.com/orris-inc/plansearch/internal/infrastructure/config"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

// Container holds the query-side components and wires them together. The
// server only reads the KV store; ingestion runs in the worker.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Store adapters
	index   *cache.IntervalIndex
	details *cache.DetailCache
	pinger  *cache.StorePinger

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers
}

// NewContainer creates a new Container with all dependencies wired together.
// The redis client is owned by the caller.
func NewContainer(cfg *config.Config, redisClient *redis.Client, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	c.index = cache.NewIntervalIndex(redisClient)
	c.details = cache.NewDetailCache(redisClient, cfg.Index.DetailTTL)
	c.pinger = cache.NewStorePinger(redisClient)

	c.initUseCases()
	c.initHandlers()

	return c
}
