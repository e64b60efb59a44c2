package main

import (
	"time"

	"go.uber.org/zap"

	"agencydesk/internal/cache"
	"agencydesk/internal/config"
	"agencydesk/internal/db"
	"agencydesk/internal/mq"
	"agencydesk/internal/mqhandler"
	redisclient "agencydesk/internal/redis"
	"agencydesk/internal/repository"
	"agencydesk/internal/util"
)

func main() {
	cfg := config.Load()

	logger := util.NewLogger()
	defer logger.Sync()

	logger.Info("Starting worker service...")

	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour)
	snapshots := cache.NewSnapshot(rdb, cfg.Mutation.SnapshotTTL, logger)
	auditRepo := repository.NewAudit(dbConn, logger)

	auditHandler := mqhandler.NewAuditHandler(auditRepo, deduper, logger)
	invalidateHandler := mqhandler.NewInvalidateHandler(snapshots, logger)

	// audit consumer sees every event
	logger.Info("Initializing audit consumer", zap.String("queue", "aggregate.audit.q"))
	auditConsumer, err := mq.NewConsumer(cfg.MQ.URL, "aggregate.audit.q", "#", logger)
	if err != nil {
		logger.Fatal("failed to init audit consumer", zap.Error(err))
	}
	defer auditConsumer.Close()
	auditConsumer.SetHandler(auditHandler.Handle)
	go func() {
		if err := auditConsumer.StartConsuming(); err != nil {
			logger.Fatal("audit consumer failed", zap.Error(err))
		}
	}()

	// invalidation consumer drops snapshots written by other instances
	logger.Info("Initializing invalidation consumer", zap.String("queue", "aggregate.invalidate.q"))
	invalidateConsumer, err := mq.NewConsumer(cfg.MQ.URL, "aggregate.invalidate.q", "#", logger)
	if err != nil {
		logger.Fatal("failed to init invalidation consumer", zap.Error(err))
	}
	defer invalidateConsumer.Close()
	invalidateConsumer.SetHandler(invalidateHandler.Handle)

	logger.Info("Worker consumers running")
	if err := invalidateConsumer.StartConsuming(); err != nil {
		logger.Fatal("invalidation consumer failed", zap.Error(err))
	}
}
