package main

import (
	"go.uber.org/zap"

	"agencydesk/internal/api"
	"agencydesk/internal/cache"
	"agencydesk/internal/config"
	"agencydesk/internal/db"
	"agencydesk/internal/httpserver"
	"agencydesk/internal/mq"
	redisclient "agencydesk/internal/redis"
	"agencydesk/internal/repository"
	"agencydesk/internal/service"
	"agencydesk/internal/util"
)

func main() {
	cfg := config.Load()

	logger := util.NewLogger()
	defer logger.Sync()

	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("failed to init producer", zap.Error(err))
	}
	defer producer.Close()

	store := repository.NewPostgres(dbConn, logger)
	snapshots := cache.NewSnapshot(rdb, cfg.Mutation.SnapshotTTL, logger)

	svc := service.New(store, producer, snapshots, logger, cfg.Mutation.Timeout)
	handler := api.NewHandler(svc, logger)

	router := httpserver.NewRouter(handler, cfg.JWT.Secret, dbConn)

	logger.Info("Starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Engine.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
