package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"
)

const canonicalUUIDLen = 36

var (
	errNotCanonicalUUID = errors.New("not in canonical 8-4-4-4-12 form")
	errNoSpecifier      = errors.New("format has no conversion specifier")
)

func parseText(raw, _ string) (any, error) {
	return raw, nil
}

// parseBoolean is permissive: only "true" (any case) is true and every other
// input, including an empty one, is false. It never fails. Callers relying on
// typos being rejected must validate booleans themselves
func parseBoolean(raw, _ string) (any, error) {
	return strings.EqualFold(raw, "true"), nil
}

func parseInteger(raw, _ string) (any, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, err
	}
	return int32(n), nil
}

func parseLong(raw, _ string) (any, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func parseFloat(raw, _ string) (any, error) {
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return nil, err
	}
	return float32(f), nil
}

func parseDouble(raw, _ string) (any, error) {
	return strconv.ParseFloat(raw, 64)
}

func parseUUID(raw, _ string) (any, error) {
	if len(raw) != canonicalUUIDLen {
		return nil, errNotCanonicalUUID
	}
	return uuid.Parse(raw)
}

// parseTimestamp reads epoch milliseconds when layout is empty, otherwise a
// time in layout. Results are in UTC
func parseTimestamp(raw, layout string) (any, error) {
	if layout == "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not a millisecond timestamp: %w", err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.ParseInLocation(layout, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// timestampLayout converts a strftime format to a Go layout. An empty format
// selects epoch milliseconds
func timestampLayout(format string) (string, error) {
	if format == "" {
		return "", nil
	}
	if !strings.Contains(format, "%") {
		return "", &Error{Kind: KindDateFormat, Value: format, TypeName: Timestamp.String(), Err: errNoSpecifier}
	}
	layout, err := strftime.Layout(format)
	if err != nil {
		return "", &Error{Kind: KindDateFormat, Value: format, TypeName: Timestamp.String(), Err: err}
	}
	return layout, nil
}

// ValidateField checks that f can be compiled: the type is known and, for
// timestamps, the format is usable
func ValidateField(name string, f Field) error {
	_, err := fieldLayout(name, f)
	return err
}

// ParseValue converts raw into the Go value used for f's type: string, bool,
// int32, int64, float32, float64, time.Time or uuid.UUID
func ParseValue(name string, f Field, raw string) (any, error) {
	layout, err := fieldLayout(name, f)
	if err != nil {
		return nil, err
	}
	return parseAs(name, f.Type, layout, raw)
}

func fieldLayout(name string, f Field) (string, error) {
	if !f.Type.Valid() {
		return "", &Error{Kind: KindUnsupportedType, Field: name, TypeName: f.Type.String()}
	}
	if f.Type != Timestamp {
		return "", nil
	}
	return timestampLayout(f.Format)
}

func parseAs(name string, t FieldType, layout, raw string) (any, error) {
	info := fieldTypes[t]
	v, err := info.parse(raw, layout)
	if err != nil {
		return nil, &Error{Kind: info.kind, Field: name, Value: raw, TypeName: info.name, Err: err}
	}
	return v, nil
}
