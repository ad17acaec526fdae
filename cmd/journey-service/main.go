package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/Kevinm360/Sankey-Diagram/pkg/common/config"
	"github.com/Kevinm360/Sankey-Diagram/pkg/common/database"
	"github.com/Kevinm360/Sankey-Diagram/pkg/common/kafka"
	"github.com/Kevinm360/Sankey-Diagram/pkg/common/logger"
	"github.com/Kevinm360/Sankey-Diagram/pkg/common/models"
	"github.com/Kevinm360/Sankey-Diagram/pkg/pipeline"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to run-history database")
	}
	defer database.ClosePostgres()

	repo := pipeline.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate run-history schema")
	}

	cache := database.GetRedis()
	defer database.CloseRedis()

	producer := kafka.NewProducer(cfg.RunCompleteTopic)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.RunRequestTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	service := pipeline.NewService(
		pipeline.WithRepository(repo),
		pipeline.WithCache(cache, cfg.DiagramTTL),
		pipeline.WithProducer(producer),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
			if event.Type != kafka.EventRunRequested {
				return nil
			}
			req, err := kafka.DecodeRunRequest(event)
			if err != nil {
				logger.Log.WithError(err).Error("Invalid run request event")
				return nil
			}
			_, err = service.Run(ctx, pipeline.Config{
				InputPath:  req.InputPath,
				OutputPath: req.OutputPath,
				Title:      req.Title,
				Palette:    req.Palette,
			})
			if err != nil {
				logger.Log.WithError(err).WithFields(map[string]interface{}{
					"event_id": event.ID,
				}).Error("Requested pipeline run failed")
			}
			return nil
		})
		if err != nil && err != context.Canceled {
			logger.Log.WithError(err).Fatal("Consumer error")
		}
	}()

	handler := pipeline.NewHandler(service, repo, cache)
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods("GET")
	handler.Register(router.PathPrefix("/api/v1").Subrouter())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Journey Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Journey Service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Journey Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
