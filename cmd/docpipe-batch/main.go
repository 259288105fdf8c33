package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/entity"
	"docpipe/internal/export"
	"docpipe/internal/llm"
	"docpipe/internal/llm/ollama"
	"docpipe/internal/ocr"
	"docpipe/internal/pipeline"
	"docpipe/internal/repository"
	"docpipe/internal/rules"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir   = flag.String("dir", "", "directory of PDFs to process (required)")
		out   = flag.String("out", "", "output XLSX path (defaults to <dir>/../documents.xlsx)")
		mode  = flag.String("mode", "", "extraction mode: rules or llm (default from EXTRACTION_MODE)")
		inmem = flag.Bool("inmem", false, "use an in-memory SQLite database")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "documents.xlsx")
	}

	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *mode != "" {
		if !constants.IsValidMode(*mode) {
			printError("Error: unknown mode %q, use rules or llm\n", *mode)
			os.Exit(1)
		}
		cfg.ExtractionMode = constants.ExtractionMode(*mode)
	}
	if *inmem {
		cfg.Storage.DSN = ":memory:"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := repository.Open(ctx, repository.Config{DSN: cfg.Storage.DSN, DialTimeout: 5 * time.Second}, logger)
	if err != nil {
		printError("Error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	docs := repository.NewDocumentRepository(db, logger)
	artifacts := repository.NewArtifactWriter(cfg.Storage.JSONOutputDir, logger)

	textSource := ocr.NewExtractor(ocr.Config{
		Pdftotext: cfg.OCR.Pdftotext,
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
		Timeout:   cfg.OCR.Timeout,
	}, logger)

	var delegate llm.RecordExtractor
	if cfg.ExtractionMode == constants.ModeLLM {
		delegate = ollama.NewClient(ollama.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)
	}
	pipe := pipeline.New(logger, textSource, rules.NewEngine())
	strat := pipeline.StrategyFor(cfg.ExtractionMode, delegate)

	var processed, failed int
	walkErr := filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		meta := entity.DocumentMeta{
			ID:             uuid.New(),
			Filename:       filepath.Base(path),
			UploadedAt:     time.Now().UTC(),
			ExtractionMode: cfg.ExtractionMode,
		}

		pdf, err := os.ReadFile(path)
		if err != nil {
			logger.Error("batch.read_failed", "path", path, "error", err)
			failed++
			return nil
		}

		res, runErr := pipe.Process(ctx, pdf, meta.Filename, strat)
		if runErr != nil {
			msg := runErr.Error()
			meta.Status = constants.DocStatusFailed
			meta.ErrorMessage = &msg
			if err := docs.Save(ctx, &repository.SaveDocumentRequest{Meta: meta}); err != nil {
				logger.Error("batch.save_failed", "path", path, "error", err)
			}
			logger.Warn("batch.document_failed",
				"path", path, "kind", common.FailureKind(runErr), "error", runErr)
			failed++
			return nil
		}

		meta.Status = constants.DocStatusSuccess
		if err := docs.Save(ctx, &repository.SaveDocumentRequest{Meta: meta, Record: &res.Record}); err != nil {
			logger.Error("batch.save_failed", "path", path, "error", err)
			failed++
			return nil
		}
		if _, err := artifacts.Write(meta.ID, &entity.DocumentResponse{Metadata: meta, Record: &res.Record}); err != nil {
			logger.Warn("batch.artifact_failed", "path", path, "error", err)
		}
		processed++
		return nil
	})
	if walkErr != nil {
		printError("Error: walking %s: %v\n", *dir, walkErr)
		os.Exit(1)
	}

	b, err := export.NewService(docs, logger).ExportDocumentsXLSX(ctx)
	if err != nil {
		printError("Error: export: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		printError("Error: writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("processed=%d failed=%d export=%s\n", processed, failed, *out)
	if failed > 0 {
		os.Exit(1)
	}
}
