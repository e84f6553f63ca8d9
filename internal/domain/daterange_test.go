package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRangeValidate(t *testing.T) {
	t.Parallel()

	start := NewDate(2024, time.March, 2)
	end := NewDate(2024, time.March, 1)

	err := Between(start, end).Validate()
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, InvalidRange, cfgErr.Kind)

	require.NoError(t, Between(end, start).Validate())
	require.NoError(t, Between(start, start).Validate())
	require.NoError(t, AllDates().Validate())
	require.Error(t, LastDays(0).Validate())
	require.NoError(t, LastDays(7).Validate())
}

func TestDateRangeContainsInclusiveBounds(t *testing.T) {
	t.Parallel()

	rng := Between(NewDate(2024, 1, 10), NewDate(2024, 1, 20))
	today := NewDate(2024, 6, 1)

	assert.True(t, rng.Contains(NewDate(2024, 1, 10), today))
	assert.True(t, rng.Contains(NewDate(2024, 1, 20), today))
	assert.True(t, rng.Contains(NewDate(2024, 1, 15), today))
	assert.False(t, rng.Contains(NewDate(2024, 1, 9), today))
	assert.False(t, rng.Contains(NewDate(2024, 1, 21), today))
}

func TestDateRangeContainsLastDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	rng := LastDays(3)

	assert.True(t, rng.Contains(NewDate(2024, 6, 7), now))
	assert.True(t, rng.Contains(NewDate(2024, 6, 10), now))
	assert.True(t, rng.Contains(NewDate(2024, 6, 12), now))
	assert.False(t, rng.Contains(NewDate(2024, 6, 6), now))
}

func TestBetweenDropsTimeOfDay(t *testing.T) {
	t.Parallel()

	rng := Between(time.Date(2024, 2, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, 2, 3, 1, 0, 0, 0, time.UTC))
	assert.Equal(t, NewDate(2024, 2, 1), rng.Start)
	assert.Equal(t, NewDate(2024, 2, 3), rng.End)
	assert.Equal(t, "2024-02-01..2024-02-03", rng.String())
}

func TestTableBounds(t *testing.T) {
	t.Parallel()

	_, _, ok := Table{}.Bounds()
	assert.False(t, ok)

	tbl := Table{
		{Date: NewDate(2024, 1, 5)},
		{Date: NewDate(2023, 12, 31)},
		{Date: NewDate(2024, 2, 1)},
	}
	minDate, maxDate, ok := tbl.Bounds()
	require.True(t, ok)
	assert.Equal(t, NewDate(2023, 12, 31), minDate)
	assert.Equal(t, NewDate(2024, 2, 1), maxDate)
}
