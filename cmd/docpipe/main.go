package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/entity"
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
		file    = flag.String("file", "", "PDF file to process (required)")
		mode    = flag.String("mode", "", "extraction mode: rules or llm (default from EXTRACTION_MODE)")
		out     = flag.String("out", "", "write the record JSON to this path instead of stdout")
		noSave  = flag.Bool("no-save", false, "skip persisting the outcome to the database")
		timeout = flag.Duration("timeout", 5*time.Minute, "overall processing timeout")
	)
	flag.Parse()

	if *file == "" {
		printError("Error: --file is required\n")
		os.Exit(1)
	}
	if !constants.IsAllowedExt(filepath.Ext(*file)) {
		printError("Error: only PDF input is supported: %s\n", *file)
		os.Exit(1)
	}

	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *mode != "" {
		if !constants.IsValidMode(*mode) {
			printError("Error: unknown mode %q, use rules or llm\n", *mode)
			os.Exit(1)
		}
		cfg.ExtractionMode = constants.ExtractionMode(*mode)
	}

	pdf, err := os.ReadFile(*file)
	if err != nil {
		printError("Error: reading %s: %v\n", *file, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

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

	meta := entity.DocumentMeta{
		ID:             uuid.New(),
		Filename:       filepath.Base(*file),
		UploadedAt:     time.Now().UTC(),
		ExtractionMode: cfg.ExtractionMode,
	}

	res, runErr := pipe.Process(ctx, pdf, meta.Filename, pipeline.StrategyFor(cfg.ExtractionMode, delegate))
	if runErr != nil {
		msg := runErr.Error()
		meta.Status = constants.DocStatusFailed
		meta.ErrorMessage = &msg
		if !*noSave {
			persist(ctx, cfg, logger, &repository.SaveDocumentRequest{Meta: meta}, nil)
		}
		printError("Error: %s: %v\n", common.FailureKind(runErr), runErr)
		os.Exit(1)
	}
	meta.Status = constants.DocStatusSuccess
	if !*noSave {
		persist(ctx, cfg, logger,
			&repository.SaveDocumentRequest{Meta: meta, Record: &res.Record},
			&entity.DocumentResponse{Metadata: meta, Record: &res.Record})
	}

	b, err := json.MarshalIndent(res.Record, "", "  ")
	if err != nil {
		printError("Error: encoding record: %v\n", err)
		os.Exit(1)
	}
	if *out != "" {
		if err := os.WriteFile(*out, append(b, '\n'), 0o644); err != nil {
			printError("Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%s, %s)\n", *out, res.Mode, res.TextSource)
		return
	}
	fmt.Println(string(b))
}

// persist records the outcome like the daemon would; storage trouble is
// reported but does not mask the extraction result.
func persist(ctx context.Context, cfg *common.Config, logger *slog.Logger, req *repository.SaveDocumentRequest, doc *entity.DocumentResponse) {
	db, err := repository.Open(ctx, repository.Config{DSN: cfg.Storage.DSN, DialTimeout: 5 * time.Second}, logger)
	if err != nil {
		printError("Warning: database unavailable, outcome not persisted: %v\n", err)
		return
	}
	defer repository.Close(db, logger)

	if err := repository.NewDocumentRepository(db, logger).Save(ctx, req); err != nil {
		printError("Warning: persisting outcome failed: %v\n", err)
		return
	}
	if doc != nil {
		if _, err := repository.NewArtifactWriter(cfg.Storage.JSONOutputDir, logger).Write(req.Meta.ID, doc); err != nil {
			printError("Warning: writing JSON artifact failed: %v\n", err)
		}
	}
}
