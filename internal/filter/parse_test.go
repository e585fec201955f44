package filter

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The boolean parser never fails and treats anything but "true" as false.
// This mirrors the behaviour callers already depend on; do not tighten it
// without a migration plan
func TestParseBooleanIsPermissive(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"false", false},
		{"", false},
		{"yes", false},
		{"1", false},
		{" true", false},
	}

	for _, tt := range tests {
		v, err := ParseValue("flag", Field{Type: Boolean}, tt.raw)
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, v, "raw %q", tt.raw)
	}
}

func TestParseText(t *testing.T) {
	v, err := ParseValue("name", Field{Type: Text}, "MiXeD")
	require.NoError(t, err)
	assert.Equal(t, "MiXeD", v)
}

func TestParseRoundTrip(t *testing.T) {
	for _, n := range []int32{0, 1, -1, math.MaxInt32, math.MinInt32} {
		v, err := ParseValue("n", Field{Type: Integer}, strconv.FormatInt(int64(n), 10))
		require.NoError(t, err)
		assert.Equal(t, n, v)
	}

	for _, n := range []int64{0, 42, -42, math.MaxInt64, math.MinInt64} {
		v, err := ParseValue("n", Field{Type: Long}, strconv.FormatInt(n, 10))
		require.NoError(t, err)
		assert.Equal(t, n, v)
	}

	for _, f := range []float32{0, 1.5, -3.25, math.MaxFloat32, math.SmallestNonzeroFloat32} {
		v, err := ParseValue("f", Field{Type: Float}, strconv.FormatFloat(float64(f), 'g', -1, 32))
		require.NoError(t, err)
		assert.Equal(t, f, v)
	}

	for _, f := range []float64{0, 0.1, -1e300, math.MaxFloat64} {
		v, err := ParseValue("f", Field{Type: Double}, strconv.FormatFloat(f, 'g', -1, 64))
		require.NoError(t, err)
		assert.Equal(t, f, v)
	}

	for i := 0; i < 5; i++ {
		id := uuid.New()
		v, err := ParseValue("id", Field{Type: UUID}, id.String())
		require.NoError(t, err)
		assert.Equal(t, id, v)
	}
}

func TestParseNumberErrors(t *testing.T) {
	tests := []struct {
		typ  FieldType
		raw  string
		kind ErrorKind
	}{
		{Integer, "abc", KindInteger},
		{Integer, "2147483648", KindInteger},
		{Integer, "1.0", KindInteger},
		{Integer, "", KindInteger},
		{Long, "9223372036854775808", KindLong},
		{Long, "0x10", KindLong},
		{Float, "1,5", KindFloat},
		{Double, "abc", KindDouble},
		{Double, "", KindDouble},
	}

	for _, tt := range tests {
		_, err := ParseValue("n", Field{Type: tt.typ}, tt.raw)
		require.Error(t, err, "%s %q", tt.typ, tt.raw)

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, tt.kind, fe.Kind)
		assert.Equal(t, "n", fe.Field)
		assert.Equal(t, tt.raw, fe.Value)
		assert.Equal(t, tt.typ.String(), fe.TypeName)
	}
}

func TestParseUUIDRequiresCanonicalForm(t *testing.T) {
	const canonical = "123e4567-e89b-12d3-a456-426614174000"

	v, err := ParseValue("id", Field{Type: UUID}, canonical)
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse(canonical), v)

	for _, raw := range []string{
		"{" + canonical + "}",
		"urn:uuid:" + canonical,
		"123e4567e89b12d3a456426614174000",
		"123e4567-e89b-12d3-a456-42661417400g",
		"",
	} {
		_, err := ParseValue("id", Field{Type: UUID}, raw)
		kind, ok := KindOf(err)
		require.True(t, ok, "raw %q", raw)
		assert.Equal(t, KindUUID, kind, "raw %q", raw)
	}
}

func TestParseTimestampMillis(t *testing.T) {
	v, err := ParseValue("at", Field{Type: Timestamp}, "1")
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1).UTC(), v)

	v, err = ParseValue("at", Field{Type: Timestamp}, "1704067200000")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(v.(time.Time)))

	_, err = ParseValue("at", Field{Type: Timestamp}, "bad")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindDate, kind)
}

func TestParseTimestampWithFormat(t *testing.T) {
	field := Field{Type: Timestamp, Format: "%Y.%m.%d"}

	v, err := ParseValue("at", field, "2024.01.01")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(v.(time.Time)))

	_, err = ParseValue("at", field, "2024-01-01")
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindDate, fe.Kind)
	assert.Equal(t, "at", fe.Field)
	assert.Equal(t, "2024-01-01", fe.Value)
}

func TestValidateField(t *testing.T) {
	assert.NoError(t, ValidateField("at", Field{Type: Timestamp}))
	assert.NoError(t, ValidateField("at", Field{Type: Timestamp, Format: "%Y-%m-%dT%H:%M:%S"}))
	assert.NoError(t, ValidateField("n", Field{Type: Integer, Format: "ignored"}))

	err := ValidateField("at", Field{Type: Timestamp, Format: "yyyy"})
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindDateFormat, fe.Kind)
	assert.Empty(t, fe.Field)
	assert.Equal(t, "yyyy", fe.Value)

	err = ValidateField("x", Field{})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindUnsupportedType, fe.Kind)
	assert.Equal(t, "x", fe.Field)
}

func TestParseFieldType(t *testing.T) {
	tests := map[string]FieldType{
		"text":      Text,
		"String":    Text,
		"bool":      Boolean,
		"INTEGER":   Integer,
		"int":       Integer,
		"long":      Long,
		"bigint":    Long,
		"float":     Float,
		"double":    Double,
		"timestamp": Timestamp,
		"date":      Timestamp,
		"uuid":      UUID,
	}
	for name, want := range tests {
		got, ok := ParseFieldType(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseFieldType("jsonb")
	assert.False(t, ok)
}

func TestFieldTypeCapabilities(t *testing.T) {
	for _, typ := range FieldTypes() {
		wantOrdering := typ != Boolean && typ != UUID
		assert.Equal(t, wantOrdering, typ.SupportsOrdering(), typ.String())
		assert.Equal(t, typ == Text, typ.SupportsPattern(), typ.String())
	}
	assert.Len(t, FieldTypes(), 8)
	assert.False(t, FieldType(0).Valid())
}
