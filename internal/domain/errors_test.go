package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"network", &SourceError{Kind: SourceNetwork}, true},
		{"timeout", &SourceError{Kind: SourceTimeout}, true},
		{"http 503", &SourceError{Kind: SourceHTTP, Status: 503}, true},
		{"http 429", &SourceError{Kind: SourceHTTP, Status: 429}, true},
		{"http 404", &SourceError{Kind: SourceHTTP, Status: 404}, false},
		{"schema", &SourceError{Kind: SourceSchema}, false},
		{"normalize", &NormalizeError{Kind: DateFormat}, false},
		{"config", &ConfigError{Kind: InvalidRange}, false},
		{"wrapped network", &StageError{Stage: StageFetching, Err: &SourceError{Kind: SourceNetwork}}, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Retryable(tc.err), tc.name)
	}
}

func TestStageErrorKeepsOrigin(t *testing.T) {
	t.Parallel()

	origin := &NormalizeError{Kind: ValueFormat, Row: 3, Field: "y", Text: "n/a"}
	err := fmt.Errorf("run: %w", &StageError{Stage: StageNormalizing, Err: origin})

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageNormalizing, stageErr.Stage)

	var normErr *NormalizeError
	require.True(t, errors.As(err, &normErr))
	assert.Equal(t, ValueFormat, normErr.Kind)
	assert.Equal(t, 3, normErr.Row)
}

func TestSourceErrorMessage(t *testing.T) {
	t.Parallel()

	err := &SourceError{Kind: SourceHTTP, Source: "cnn", Status: 418}
	assert.Equal(t, "source cnn: http error (status 418)", err.Error())
}
