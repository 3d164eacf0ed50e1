package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/slatecrew/callsheet/internal/common"
	"github.com/slatecrew/callsheet/internal/export"
	"github.com/slatecrew/callsheet/internal/llm"
	"github.com/slatecrew/callsheet/internal/llm/openai"
	"github.com/slatecrew/callsheet/internal/pipeline"
)

func main() {
	var (
		screenplayMode = flag.Bool("screenplay", false, "treat the input as screenplay text instead of a shooting schedule")
		xlsxPath       = flag.String("xlsx", "", "also write the schedule as an XLSX workbook to this path")
		timeout        = flag.Duration("timeout", 5*time.Minute, "overall ingestion timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if flag.NArg() < 1 {
		logger.Error("usage: callsheet [-screenplay] [-xlsx out.xlsx] <schedule.pdf|screenplay.txt>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	var extractor llm.ChunkExtractor
	if cfg.LLM.Enabled {
		extractor = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
			MaxAttempts: cfg.LLM.MaxAttempts,
			MaxTokens:   cfg.LLM.MaxTokens,
		}, logger)
	} else {
		logger.Info("no OPENAI_API_KEY set, running deterministic extraction only")
	}

	proc := pipeline.NewProcessor(cfg, extractor, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *screenplayMode {
		runScreenplay(ctx, proc, path, logger)
		return
	}
	runSchedule(ctx, proc, path, *xlsxPath, logger)
}

func runSchedule(ctx context.Context, proc *pipeline.Processor, path, xlsxPath string, logger *slog.Logger) {
	f, err := os.Open(path)
	if err != nil {
		logger.Error("open input", "path", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	key := filepath.Base(path)
	var ing *pipeline.Ingest
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		ing, err = proc.IngestSchedule(ctx, key, f)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			ing, err = proc.IngestScheduleText(ctx, key, string(data))
		}
	}
	if err != nil {
		logger.Error("ingest failed", "path", path, "error", err)
		os.Exit(1)
	}

	for ev := range ing.Progress {
		logger.Info("progress",
			"status", string(ev.Status),
			"percent", ev.Percent,
			"message", ev.Message,
		)
	}
	<-ing.Done

	model, ok := proc.Model(key)
	if !ok {
		logger.Error("no model produced", "key", key)
		os.Exit(1)
	}

	if xlsxPath != "" {
		data, err := export.NewService(logger).ScheduleXLSX(model)
		if err != nil {
			logger.Error("xlsx export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			logger.Error("xlsx write failed", "path", xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("xlsx written", "path", xlsxPath)
	}

	printJSON(model, logger)
}

func runScreenplay(ctx context.Context, proc *pipeline.Processor, path string, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read input", "path", path, "error", err)
		os.Exit(1)
	}
	model, err := proc.IngestScreenplay(ctx, string(data))
	if err != nil {
		logger.Error("screenplay ingest failed", "path", path, "error", err)
		os.Exit(1)
	}
	printJSON(model, logger)
}

func printJSON(v any, logger *slog.Logger) {
	out, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Error("marshal output", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(append(out, '\n'))
}
