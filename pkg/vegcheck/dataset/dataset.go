// Package dataset holds the read-only reference tables the classifier
// matches against: additive codes, general ingredients, a blacklist and a
// whitelist. Tables are loaded once at startup and never mutated, so
// concurrent classification needs no coordination.
package dataset

// Risk grades how likely an ingredient is to carry hidden animal content.
type Risk string

const (
	RiskLow     Risk = "low"
	RiskMedium  Risk = "medium"
	RiskHigh    Risk = "high"
	RiskUnknown Risk = "unknown"
)

// Source tags where a matched record came from.
type Source string

const (
	SourceDatabase  Source = "database"
	SourceBlacklist Source = "blacklist"
	SourceWhitelist Source = "whitelist"
	SourceAI        Source = "ai"
)

// Record is one reference entry. Vegetarian and Vegan are tri-state:
// nil means unknown, which the classifier treats conservatively.
type Record struct {
	Name       string   `yaml:"name"`
	NameEn     string   `yaml:"name_en,omitempty"`
	Aliases    []string `yaml:"aliases,omitempty"`
	Vegetarian *bool    `yaml:"vegetarian,omitempty"`
	Vegan      *bool    `yaml:"vegan,omitempty"`
	Risk       Risk     `yaml:"risk,omitempty"`
	Category   string   `yaml:"category,omitempty"`
	Notes      string   `yaml:"notes,omitempty"`
	Source     Source   `yaml:"source,omitempty"`
}

// CodeRecord is a Record keyed by a normalized additive code
// (letter prefix + digits + optional letter suffix), matched
// case-insensitively.
type CodeRecord struct {
	Code   string `yaml:"code"`
	Record `yaml:",inline"`
}

// Dataset bundles the four reference tables. Table order matters: fuzzy
// matching accepts the first qualifying candidate in iteration order.
type Dataset struct {
	Codes       []CodeRecord
	Ingredients []Record
	Blacklist   []Record
	Whitelist   []Record
}

// Bool is a convenience for building records in code and tests.
func Bool(v bool) *bool { return &v }
