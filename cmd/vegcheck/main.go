package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vegcheck/vegcheck/internal/llm"
	"github.com/vegcheck/vegcheck/pkg/vegcheck"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/explain"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/internalerr"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judge"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judgecache/memcache"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judgecache/sqlite"
)

func main() {
	var (
		dataDir  = flag.String("data", "", "Reference data directory (defaults to built-in tables)")
		text     = flag.String("text", "", "One-shot label text to classify")
		filePath = flag.String("file", "", "File containing label text to classify")
		dbPath   = flag.String("db", "", "SQLite judgment cache path (in-memory cache if empty)")
		llmURL   = flag.String("llm-url", "", "OpenAI-compatible chat completions URL (enables AI judging)")
		llmKey   = flag.String("llm-key", "", "API key for the chat endpoint")
		llmModel = flag.String("llm-model", "", "Model name for the chat endpoint")
		locale   = flag.String("locale", "zh", "Locale for AI judge prompts")
		timeout  = flag.Duration("timeout", vegcheck.DefaultJudgeTimeout, "AI judge batch timeout")
	)
	flag.Parse()

	ctx := context.Background()

	engine, err := buildEngine(ctx, *dataDir, *dbPath, *llmURL, *llmKey, *llmModel, *locale, *timeout)
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	// One-shot modes
	if *filePath != "" {
		raw, err := os.ReadFile(*filePath)
		if err != nil {
			log.Fatal(err)
		}
		if err := classifyOnce(ctx, engine, string(raw)); err != nil {
			log.Fatal(err)
		}
		return
	}
	if *text != "" {
		if err := classifyOnce(ctx, engine, *text); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Println("  VegCheck CLI")
	fmt.Println("  Ingredient label classification")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Paste ingredient label text (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := classifyOnce(ctx, engine, line); err != nil {
			fmt.Println("Error:", err)
		}
	}

	fmt.Println("\nGoodbye!")
}

func buildEngine(ctx context.Context, dataDir, dbPath, llmURL, llmKey, llmModel, locale string, timeout time.Duration) (*vegcheck.Engine, error) {
	opts := vegcheck.Options{
		Locale:       locale,
		JudgeTimeout: timeout,
	}

	if dataDir != "" {
		ds, err := dataset.Load(dataDir)
		if err != nil {
			return nil, fmt.Errorf("load data: %w", err)
		}
		opts.Dataset = ds
	}

	if llmURL != "" {
		opts.Judge = &llm.Client{BaseURL: llmURL, APIKey: llmKey, Model: llmModel}

		var (
			cache judge.Cache
			err   error
		)
		if dbPath != "" {
			cache, err = sqlite.OpenSQLite(ctx, dbPath)
		} else {
			cache, err = memcache.New(memcache.DefaultSize)
		}
		if err != nil {
			return nil, fmt.Errorf("open judgment cache: %w", err)
		}
		opts.Cache = cache
	}

	return vegcheck.New(opts), nil
}

func classifyOnce(ctx context.Context, engine *vegcheck.Engine, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty label text", internalerr.ErrInvalidInput)
	}

	rep, err := engine.Classify(ctx, text)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s %s — %s\n", rep.Explanation.Icon, rep.Explanation.Title, rep.Explanation.Description)
	fmt.Println(rep.Summary)
	fmt.Println()
	fmt.Println(renderDetails(rep.Explanation.Details))
	return nil
}

func renderDetails(d explain.Details) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"成分", "狀態", "分類", "說明"})

	for _, group := range [][]explain.Detail{d.Danger, d.Warning, d.Unknown, d.Safe} {
		for _, det := range group {
			tw.AppendRow(table.Row{
				det.DisplayName,
				fmt.Sprintf("%s %s", explain.Icon(det.Status), det.Status),
				det.Category,
				det.Reason,
			})
		}
	}

	return tw.Render()
}
