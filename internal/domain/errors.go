package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigErrorKind classifies invalid user input.
type ConfigErrorKind string

const InvalidRange ConfigErrorKind = "invalid_range"

// ConfigError is raised before any fetch when the request itself is wrong.
type ConfigError struct {
	Kind    ConfigErrorKind
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %s", e.Kind, e.Message)
}

// SourceErrorKind classifies upstream and transport failures.
type SourceErrorKind string

const (
	SourceNetwork SourceErrorKind = "network"
	SourceHTTP    SourceErrorKind = "http"
	SourceTimeout SourceErrorKind = "timeout"
	SourceSchema  SourceErrorKind = "schema"
)

// SourceError reports a failed fetch. Status is set only for SourceHTTP.
type SourceError struct {
	Kind   SourceErrorKind
	Source string
	Status int
	Err    error
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("source %s: %s error", e.Source, e.Kind)
	if e.Kind == SourceHTTP {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceError) Unwrap() error { return e.Err }

// NormalizeErrorKind classifies schema mismatches found after a successful fetch.
type NormalizeErrorKind string

const (
	DateFormat  NormalizeErrorKind = "date_format"
	ValueFormat NormalizeErrorKind = "value_format"
)

// NormalizeError points at the first row that could not be mapped.
type NormalizeError struct {
	Kind  NormalizeErrorKind
	Row   int
	Field string
	Text  string
	Err   error
}

func (e *NormalizeError) Error() string {
	msg := fmt.Sprintf("normalize row %d: %s: field %q has %q", e.Row, e.Kind, e.Field, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// Stage names a pipeline state.
type Stage string

const (
	StageValidating  Stage = "validating"
	StageFetching    Stage = "fetching"
	StageNormalizing Stage = "normalizing"
	StageFiltering   Stage = "filtering"
	StageDone        Stage = "done"
)

// StageError tags the originating error with the stage it failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Retryable reports whether a user-initiated retry could plausibly succeed.
func Retryable(err error) bool {
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		return false
	}
	switch srcErr.Kind {
	case SourceNetwork, SourceTimeout:
		return true
	case SourceHTTP:
		return srcErr.Status >= http.StatusInternalServerError || srcErr.Status == http.StatusTooManyRequests
	default:
		return false
	}
}
