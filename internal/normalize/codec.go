package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"SentimentExporter/internal/domain"
)

// Codec names accepted in configuration.
const (
	CodecLayout  = "layout"
	CodecEpochMS = "epoch-ms"
	CodecEpochS  = "epoch-s"
)

// DateCodec parses the single date encoding a source uses.
type DateCodec interface {
	Parse(text string) (time.Time, error)
}

// LayoutCodec parses text dates such as "January 5, 2023".
type LayoutCodec struct {
	Layout string
}

func (c LayoutCodec) Parse(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.Parse(c.Layout, text)
	if err != nil {
		return time.Time{}, err
	}
	return domain.NewDate(t.Year(), t.Month(), t.Day()), nil
}

// EpochCodec parses Unix timestamps in Unit steps (time.Second or time.Millisecond).
// Only plain digits are accepted; a fractional part is allowed and truncated.
type EpochCodec struct {
	Unit time.Duration
}

var epochText = regexp.MustCompile(`^([0-9]+)(?:\.[0-9]+)?$`)

// maxEpochSeconds is 9999-12-31T23:59:59Z, the last instant the canonical layout can print.
const maxEpochSeconds = 253402300799

func (c EpochCodec) Parse(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	m := epochText.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, fmt.Errorf("timestamp %q is not a non-negative integer", text)
	}
	units, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", text, err)
	}

	var seconds int64
	switch c.Unit {
	case time.Millisecond:
		seconds = units / 1000
	case time.Second:
		seconds = units
	default:
		return time.Time{}, fmt.Errorf("unsupported epoch unit %s", c.Unit)
	}
	if seconds > maxEpochSeconds {
		return time.Time{}, fmt.Errorf("timestamp %q is out of range", text)
	}
	return domain.DateOf(time.Unix(seconds, 0)), nil
}

// CodecFor resolves a configured codec name.
func CodecFor(name, layout string) (DateCodec, error) {
	switch name {
	case CodecLayout:
		if layout == "" {
			return nil, fmt.Errorf("codec %q needs a layout", name)
		}
		return LayoutCodec{Layout: layout}, nil
	case CodecEpochMS:
		return EpochCodec{Unit: time.Millisecond}, nil
	case CodecEpochS:
		return EpochCodec{Unit: time.Second}, nil
	default:
		return nil, fmt.Errorf("unknown date codec %q", name)
	}
}
