package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentimentExporter/internal/config"
	"SentimentExporter/internal/domain"
)

func resetRangeFlags(t *testing.T) {
	t.Helper()
	fromDate, toDate, lastDays = "", "", 0
	t.Cleanup(func() { fromDate, toDate, lastDays = "", "", 0 })
}

func TestRangeFromFlags(t *testing.T) {
	resetRangeFlags(t)

	rng, err := rangeFromFlags()
	require.NoError(t, err)
	assert.Equal(t, domain.AllDates(), rng)

	fromDate, toDate = "2023-01-01", "2023-06-30"
	rng, err = rangeFromFlags()
	require.NoError(t, err)
	assert.Equal(t, domain.Between(domain.NewDate(2023, 1, 1), domain.NewDate(2023, 6, 30)), rng)

	fromDate, toDate = "", ""
	lastDays = 30
	rng, err = rangeFromFlags()
	require.NoError(t, err)
	assert.Equal(t, domain.LastDays(30), rng)

	lastDays = 0
	fromDate, toDate = "2023-01-01", "June 30"
	_, err = rangeFromFlags()
	assert.ErrorContains(t, err, "invalid --to")
}

func TestDescribeMarksRetryableFailures(t *testing.T) {
	retryable := &domain.StageError{Stage: domain.StageFetching, Err: &domain.SourceError{Kind: domain.SourceTimeout, Source: "cnn"}}
	assert.Contains(t, describe(retryable).Error(), "retryable")
	assert.True(t, errors.Is(describe(retryable), retryable))

	final := &domain.StageError{Stage: domain.StageNormalizing, Err: &domain.NormalizeError{Kind: domain.DateFormat}}
	assert.NotContains(t, describe(final).Error(), "retryable")

	plain := errors.New("source \"x\" is not configured")
	assert.Equal(t, plain, describe(plain))
}

func TestSourcesListsConfiguredSources(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = config.Config{
		DefaultSource: "cnn",
		Sources: []config.SourceConfig{
			{Name: "cnn", Kind: "json-api", Label: "cnn_fg_index", URL: "https://example.org/cnn"},
			{Name: "alternative", Kind: "json-api", URL: "https://example.org/fng"},
		},
	}

	var out bytes.Buffer
	sourcesCmd.SetOut(&out)
	t.Cleanup(func() { sourcesCmd.SetOut(nil) })
	sourcesCmd.Run(sourcesCmd, nil)

	assert.Contains(t, out.String(), "cnn *")
	assert.Contains(t, out.String(), "cnn_fg_index")
	assert.Contains(t, out.String(), "alternative")
}
