package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"dtek-schedule/internal/schedule"
)

const (
	presetExpr = `(typeof DisconSchedule !== 'undefined' && DisconSchedule.preset) ? JSON.stringify(DisconSchedule.preset) : ""`
	factExpr   = `(typeof DisconSchedule !== 'undefined' && DisconSchedule.fact) ? JSON.stringify(DisconSchedule.fact) : ""`
)

// ErrExtraction means the page did not yield both documents.
var ErrExtraction = errors.New("could not extract schedule data from page")

// ExtractionError records which halves were missing.
type ExtractionError struct {
	MissingPreset bool
	MissingFact   bool
}

func (e *ExtractionError) Error() string {
	var missing []string
	if e.MissingPreset {
		missing = append(missing, "preset")
	}
	if e.MissingFact {
		missing = append(missing, "fact")
	}
	return fmt.Sprintf("%v (missing: %s)", ErrExtraction, strings.Join(missing, ", "))
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// Extract reads DisconSchedule.preset and DisconSchedule.fact from the page.
// Each half is independent: a failed evaluation or malformed JSON leaves
// that half nil and is only logged.
func Extract(ctx context.Context, page Page, log zerolog.Logger) (json.RawMessage, *schedule.Fact) {
	var preset json.RawMessage
	if raw, err := evalString(ctx, page, presetExpr); err != nil {
		log.Warn().Err(err).Msg("could not extract preset JSON")
	} else if raw != "" {
		if json.Valid([]byte(raw)) {
			preset = json.RawMessage(raw)
		} else {
			log.Warn().Msg("could not extract preset JSON: malformed document")
		}
	}

	var fact *schedule.Fact
	if raw, err := evalString(ctx, page, factExpr); err != nil {
		log.Warn().Err(err).Msg("could not extract fact JSON")
	} else if raw != "" {
		var f schedule.Fact
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			log.Warn().Err(err).Msg("could not extract fact JSON")
		} else {
			fact = &f
		}
	}

	return preset, fact
}

func evalString(ctx context.Context, page Page, expr string) (string, error) {
	var s string
	if err := page.Evaluate(ctx, expr, &s); err != nil {
		return "", err
	}
	return s, nil
}
