package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Both(t *testing.T) {
	page := &fakePage{preset: testPreset, fact: mustJSON(testFact)}

	preset, fact := Extract(context.Background(), page, zerolog.Nop())
	require.NotNil(t, preset)
	require.NotNil(t, fact)
	assert.JSONEq(t, testPreset, string(preset))
	assert.Equal(t, int64(1700000000), fact.Today)
	assert.Equal(t, "16.11.2023 10:00", fact.Update)
	assert.Equal(t, "yes", fact.Data["1700000000"]["GPV3.1"]["13"])
}

func TestExtract_HalvesAreIndependent(t *testing.T) {
	tests := []struct {
		name       string
		page       *fakePage
		wantPreset bool
		wantFact   bool
	}{
		{"preset eval error", &fakePage{presetErr: errors.New("boom"), fact: mustJSON(testFact)}, false, true},
		{"fact eval error", &fakePage{preset: testPreset, factErr: errors.New("boom")}, true, false},
		{"preset malformed", &fakePage{preset: "{not json", fact: mustJSON(testFact)}, false, true},
		{"fact malformed", &fakePage{preset: testPreset, fact: `{"today":"x"`}, true, false},
		{"both absent", &fakePage{preset: "", fact: ""}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, fact := Extract(context.Background(), tt.page, zerolog.Nop())
			assert.Equal(t, tt.wantPreset, preset != nil)
			assert.Equal(t, tt.wantFact, fact != nil)
		})
	}
}

func TestExtractionError(t *testing.T) {
	err := error(&ExtractionError{MissingFact: true})
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Contains(t, err.Error(), "missing: fact")

	err = &ExtractionError{MissingPreset: true, MissingFact: true}
	assert.Contains(t, err.Error(), "missing: preset, fact")
}

func TestExtract_TolerantFactShapes(t *testing.T) {
	fact := `{"today":1700000000,"update":"u","data":{
		"1700000000":{"GPV3.1":{"1":"no","2":0,"13":"yes"}},
		"1700086400":[]}}`
	page := &fakePage{preset: testPreset, fact: fact}

	preset, got := Extract(context.Background(), page, zerolog.Nop())
	require.NotNil(t, preset)
	require.NotNil(t, got)
	assert.Equal(t, map[string]string{"1": "no", "13": "yes"}, got.Data["1700000000"]["GPV3.1"])
	assert.Empty(t, got.Data["1700086400"])
}
