// Package listparse converts unstructured consolidated-list text into
// normalized entries through layered extraction passes.
package listparse

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// PassConfig gates one of the looser extraction passes
type PassConfig struct {
	// MaxEntriesBefore skips the pass when earlier passes already produced
	// this many entries. Looser heuristics only run when the strict passes
	// under-deliver, which bounds false positives.
	MaxEntriesBefore int
}

// Config controls the pass pipeline
type Config struct {
	Numeric    PassConfig
	Dashed     PassConfig
	AltEnglish PassConfig

	// MaxSpanBytes caps an entry span when no next-entry marker is found
	MaxSpanBytes int
}

// DefaultConfig returns the standard pass gates
func DefaultConfig() Config {
	return Config{
		Numeric:      PassConfig{MaxEntriesBefore: 300},
		Dashed:       PassConfig{MaxEntriesBefore: 300},
		AltEnglish:   PassConfig{MaxEntriesBefore: 100},
		MaxSpanBytes: 5000,
	}
}

// Parser extracts entries from list text. Safe for concurrent use; all parse
// state lives in a per-run context.
type Parser struct {
	logger ectologger.Logger
	config Config
}

// NewParser creates a new Parser
func NewParser(logger ectologger.Logger, config Config) *Parser {
	if config.MaxSpanBytes <= 0 {
		config.MaxSpanBytes = 5000
	}
	return &Parser{
		logger: logger,
		config: config,
	}
}

// Parse runs the extraction passes over the text and returns the
// deduplicated entries. Passes run strictest first; an entry captured under
// one pass is never re-added by a later, looser one. Data-quality problems
// degrade to empty fields rather than failing the run.
func (p *Parser) Parse(ctx context.Context, text string) []*models.Entry {
	_, span := tracing.StartSpan(ctx, "listparse.Parser.Parse")
	defer span.End()

	log := p.logger.WithContext(ctx)

	rc := newRunContext()
	entries := make([]*models.Entry, 0)

	entries = p.entityPass(text, rc, entries)
	entries = p.personPass(text, rc, entries)
	entries = p.genericPass(text, rc, entries)

	if len(entries) < p.config.Numeric.MaxEntriesBefore {
		entries = p.numericPass(text, rc, entries)
	}
	if len(entries) < p.config.Dashed.MaxEntriesBefore {
		entries = p.dashedPass(text, rc, entries)
	}
	if len(entries) < p.config.AltEnglish.MaxEntriesBefore {
		log.Debug("Strict passes under-delivered, trying alternative format")
		entries = p.altEnglishPass(text, rc, entries)
	}

	log.WithFields(map[string]any{"entry_count": len(entries)}).Info("Parsed list text")

	return entries
}
