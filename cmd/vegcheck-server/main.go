package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	"github.com/vegcheck/vegcheck/internal/llm"
	"github.com/vegcheck/vegcheck/pkg/vegcheck"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/explain"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judge"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judgecache/memcache"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judgecache/sqlite"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/labelfilter"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "Listen address")
		maxConns = flag.Int("max-conns", 256, "Maximum concurrent connections")
		dataDir  = flag.String("data", "", "Reference data directory (defaults to built-in tables)")
		dbPath   = flag.String("db", "", "SQLite judgment cache path (in-memory cache if empty)")
		llmURL   = flag.String("llm-url", "", "OpenAI-compatible chat completions URL (enables AI judging)")
		llmKey   = flag.String("llm-key", "", "API key for the chat endpoint")
		llmModel = flag.String("llm-model", "", "Model name for the chat endpoint")
		locale   = flag.String("locale", "zh", "Locale for AI judge prompts")
		timeout  = flag.Duration("timeout", vegcheck.DefaultJudgeTimeout, "AI judge batch timeout")
	)
	flag.Parse()

	ctx := context.Background()

	opts := vegcheck.Options{
		Locale:       *locale,
		JudgeTimeout: *timeout,
	}
	if *dataDir != "" {
		ds, err := dataset.Load(*dataDir)
		if err != nil {
			log.Fatal(err)
		}
		opts.Dataset = ds
	}
	if *llmURL != "" {
		opts.Judge = &llm.Client{BaseURL: *llmURL, APIKey: *llmKey, Model: *llmModel}

		var (
			cache judge.Cache
			err   error
		)
		if *dbPath != "" {
			cache, err = sqlite.OpenSQLite(ctx, *dbPath)
		} else {
			cache, err = memcache.New(memcache.DefaultSize)
		}
		if err != nil {
			log.Fatal(err)
		}
		opts.Cache = cache
	}

	engine := vegcheck.New(opts)
	defer engine.Close()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal(err)
	}
	listener = netutil.LimitListener(listener, *maxConns)

	server := &http.Server{
		Handler:           newMux(engine),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", listener.Addr())
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

type classifyRequest struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines,omitempty"`
}

type classifyResponse struct {
	Status        string              `json:"status"`
	ID            string              `json:"id"`
	Verdict       string              `json:"verdict"`
	Summary       string              `json:"summary"`
	Explanation   explain.Explanation `json:"explanation"`
	RejectedLines []string            `json:"rejectedLines,omitempty"`
	Debug         classifyDebug       `json:"debug"`
}

type classifyDebug struct {
	Normalized string   `json:"normalized"`
	Tokens     []string `json:"tokens"`
	ECodes     []string `json:"eCodes"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func newMux(engine *vegcheck.Engine) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/classify", handleClassify(engine))
	mux.HandleFunc("/api/health", handleHealth)
	return mux
}

func handleClassify(engine *vegcheck.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		text := req.Text
		var rejected []string
		if len(req.Lines) > 0 {
			var ingredients []string
			ingredients, rejected = labelfilter.Filter(req.Lines)
			if text != "" {
				ingredients = append([]string{text}, ingredients...)
			}
			text = strings.Join(ingredients, "\n")
		}

		if strings.TrimSpace(text) == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		rep, err := engine.Classify(r.Context(), text)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("classify: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, classifyResponse{
			Status:        "ok",
			ID:            rep.ID,
			Verdict:       string(rep.Verdict),
			Summary:       rep.Summary,
			Explanation:   rep.Explanation,
			RejectedLines: rejected,
			Debug: classifyDebug{
				Normalized: rep.Normalized,
				Tokens:     rep.Tokens,
				ECodes:     rep.ECodes,
			},
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Status: "error", Error: msg})
}
