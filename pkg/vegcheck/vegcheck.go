// Package vegcheck classifies ingredient-label text for vegetarian and
// vegan suitability. Text flows through normalization, tokenization and
// rule matching into status buckets, and an optional AI collaborator can
// upgrade unknown ingredients before the explanation is built.
package vegcheck

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/explain"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judge"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/rules"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/textnorm"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/tokenize"
)

// DefaultJudgeTimeout bounds a single collaborator batch call.
const DefaultJudgeTimeout = 3 * time.Second

// Engine is the main classification facade.
type Engine struct {
	matcher   *rules.Matcher
	tokenizer *tokenize.Tokenizer
	judge     judge.Judge
	cache     judge.Cache
	timeout   time.Duration
	locale    string

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures an Engine instance. All fields are optional: the
// zero value yields a deterministic-only engine over the built-in data.
type Options struct {
	Dataset      *dataset.Dataset
	Tokenizer    *tokenize.Tokenizer
	Judge        judge.Judge
	Cache        judge.Cache
	JudgeTimeout time.Duration
	Locale       string
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	ds := opts.Dataset
	if ds == nil {
		ds = dataset.Default()
	}
	tk := opts.Tokenizer
	if tk == nil {
		tk = tokenize.Default()
	}
	timeout := opts.JudgeTimeout
	if timeout <= 0 {
		timeout = DefaultJudgeTimeout
	}
	locale := opts.Locale
	if locale == "" {
		locale = "zh"
	}

	return &Engine{
		matcher:   rules.NewMatcher(ds),
		tokenizer: tk,
		judge:     opts.Judge,
		cache:     opts.Cache,
		timeout:   timeout,
		locale:    locale,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Close cleanly shuts down the engine and its judgment cache.
func (e *Engine) Close() error {
	if e.cache != nil {
		return e.cache.Close()
	}
	return nil
}

// Report is the full result of classifying one label text.
type Report struct {
	ID          string              `json:"id"`
	Verdict     rules.Status        `json:"verdict"`
	Summary     string              `json:"summaryText"`
	Explanation explain.Explanation `json:"explanation"`
	Normalized  string              `json:"normalized"`
	Tokens      []string            `json:"tokens"`
	ECodes      []string            `json:"eCodes"`
}

// Classify runs the full pipeline over raw label text. The deterministic
// result is always produced; collaborator failures or timeouts leave it
// standing unchanged.
func (e *Engine) Classify(ctx context.Context, text string) (Report, error) {
	normalized := textnorm.NormalizeIngredients(text)
	td := e.tokenizer.WithECodes(normalized)

	buckets := e.matcher.Classify(td)
	e.augment(ctx, &buckets)

	verdict := rules.FinalVerdict(buckets)
	expl := explain.Build(buckets, verdict)

	return Report{
		ID:          e.newID(),
		Verdict:     verdict,
		Summary:     explain.SummaryText(expl),
		Explanation: expl,
		Normalized:  normalized,
		Tokens:      td.Tokens,
		ECodes:      td.ECodes,
	}, nil
}

// augment resolves unknown-bucket names through the cache and, for the
// remaining misses, one collaborator batch call. Any error along the way
// simply leaves the unknowns where they are.
func (e *Engine) augment(ctx context.Context, b *rules.Buckets) {
	if len(b.Unknown) == 0 {
		return
	}
	if e.judge == nil && e.cache == nil {
		return
	}

	names := make([]string, 0, len(b.Unknown))
	for _, r := range b.Unknown {
		names = append(names, r.Input)
	}

	judgments := make([]judge.Judgment, 0, len(names))
	var misses []string
	for _, name := range names {
		if e.cache != nil {
			if j, ok, err := e.cache.Get(ctx, name); err == nil && ok {
				j.Ingredient = name
				judgments = append(judgments, j)
				continue
			}
		}
		misses = append(misses, name)
	}

	if len(misses) > 0 && e.judge != nil {
		jctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		fresh, err := e.judge.JudgeBatch(jctx, misses, e.locale)
		if err == nil {
			for _, j := range fresh {
				judgments = append(judgments, j)
				if e.cache != nil && j.Usable() {
					_ = e.cache.Set(ctx, j.Ingredient, j)
				}
			}
		}
	}

	judge.Augment(b, judgments)
}

func (e *Engine) newID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}
