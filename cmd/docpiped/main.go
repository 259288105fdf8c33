package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/export"
	"docpipe/internal/llm/ollama"
	"docpipe/internal/ocr"
	"docpipe/internal/pipeline"
	"docpipe/internal/repository"
	"docpipe/internal/rules"
	"docpipe/internal/server"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	zlog, _ := zap.NewProduction()
	defer func() { _ = zlog.Sync() }()
	log := zlog.Sugar()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(slogger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Storage.DSN,
		DialTimeout: 5 * time.Second,
	}, slogger)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer repository.Close(db, slogger)

	if err := repository.HealthCheck(ctx, db, 3*time.Second); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}
	log.Infow("database health OK", "dsn", cfg.Storage.DSN)

	docs := repository.NewDocumentRepository(db, slogger)
	artifacts := repository.NewArtifactWriter(cfg.Storage.JSONOutputDir, slogger)

	textSource := ocr.NewExtractor(ocr.Config{
		Pdftotext: cfg.OCR.Pdftotext,
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
		Timeout:   cfg.OCR.Timeout,
	}, slogger)

	llmClient := ollama.NewClient(ollama.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, slogger)
	if cfg.ExtractionMode == constants.ModeLLM {
		if err := llmClient.Ping(ctx); err != nil {
			log.Warnf("model endpoint not reachable at startup: %v", err)
		}
	}

	pipe := pipeline.New(slogger, textSource, rules.NewEngine())

	srv := server.New(cfg.Server.HTTPAddr, server.Deps{
		Pipeline:    pipe,
		Documents:   docs,
		Artifacts:   artifacts,
		Exporter:    export.NewService(docs, slogger),
		LLMClient:   llmClient,
		DefaultMode: cfg.ExtractionMode,
		LLMModel:    cfg.LLM.Model,
	}, zlog)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("http serve: %v", err)
		}
	case <-ctx.Done():
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}
	log.Info("stopped")
}
