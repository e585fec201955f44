package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		typ  FieldType
		want []Branch
	}{
		{"plain value", "5", Integer, []Branch{{Operator: Equals, Value: "5"}}},
		{"not prefix", "not_5", Integer, []Branch{{Negated: true, Operator: Equals, Value: "5"}}},
		{"not prefix any case", "NOT_5", Integer, []Branch{{Negated: true, Operator: Equals, Value: "5"}}},
		{"null", "null", Integer, []Branch{{Operator: Null, Value: "null"}}},
		{"null any case", "NuLL", Long, []Branch{{Operator: Null, Value: "NuLL"}}},
		{"not null", "not_null", Integer, []Branch{{Negated: true, Operator: Null, Value: "null"}}},
		{"eq prefix stripped", "eq_7", Integer, []Branch{{Operator: Equals, Value: "7"}}},
		{"less than", "lt_5", Integer, []Branch{{Operator: LessThan, Value: "5"}}},
		{"greater than", "GT_5", Double, []Branch{{Operator: GreaterThan, Value: "5"}}},
		{"between keeps infix", "1_bt_5", Integer, []Branch{{Operator: Between, Value: "1_bt_5"}}},
		{"negated between", "not_1_bt_5", Long, []Branch{{Negated: true, Operator: Between, Value: "1_bt_5"}}},
		{"eq then lt", "eq_lt_5", Integer, []Branch{{Operator: LessThan, Value: "5"}}},
		{"or split", "lt_5|gt_10", Integer, []Branch{
			{Operator: LessThan, Value: "5"},
			{Operator: GreaterThan, Value: "10"},
		}},
		{"ordering ignored for boolean", "lt_5", Boolean, []Branch{{Operator: Equals, Value: "lt_5"}}},
		{"ordering ignored for uuid", "1_bt_2", UUID, []Branch{{Operator: Equals, Value: "1_bt_2"}}},
		{"like ignored for numbers", "lk_5", Integer, []Branch{{Operator: Equals, Value: "lk_5"}}},
		{"text like", "lk_*ab*", Text, []Branch{{Operator: Like, Value: "%AB%"}}},
		{"text not like", "not_lk_a*", Text, []Branch{{Negated: true, Operator: Like, Value: "A%"}}},
		{"text uppercased", "abc", Text, []Branch{{Operator: Equals, Value: "ABC"}}},
		{"text between uppercased", "a_bt_b", Text, []Branch{{Operator: Between, Value: "A_BT_B"}}},
		{"text null", "null", Text, []Branch{{Operator: Null, Value: "NULL"}}},
		{"text star kept outside like", "a*b", Text, []Branch{{Operator: Equals, Value: "A*B"}}},
		{"empty value", "", Integer, []Branch{{Operator: Equals, Value: ""}}},
		{"trailing separator dropped", "5|", Integer, []Branch{{Operator: Equals, Value: "5"}}},
		{"leading separator kept", "|5", Integer, []Branch{
			{Operator: Equals, Value: ""},
			{Operator: Equals, Value: "5"},
		}},
		{"only separators", "||", Integer, []Branch{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.raw, tt.typ))
		})
	}
}

func TestExtractNeverStoresNotMarker(t *testing.T) {
	for _, typ := range FieldTypes() {
		for _, raw := range []string{"not_", "not_not_1", "not_null", "not_lk_x"} {
			for _, b := range Extract(raw, typ) {
				assert.NotEqual(t, NotMarker, b.Operator, "type %s raw %q", typ, raw)
			}
		}
	}
}

func TestNewExpression(t *testing.T) {
	expr, err := NewExpression("age", Field{Type: Integer}, "lt_5|gt_10")
	require.NoError(t, err)

	assert.Equal(t, "age", expr.Name())
	assert.Equal(t, Integer, expr.Field().Type)

	branches := expr.Branches()
	require.Len(t, branches, 2)
	branches[0].Value = "mutated"
	assert.Equal(t, "5", expr.Branches()[0].Value, "Branches must return a copy")
}

func TestNewExpressionUnsupportedType(t *testing.T) {
	_, err := NewExpression("weight", Field{Type: FieldType(42)}, "12")
	require.Error(t, err)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindUnsupportedType, fe.Kind)
	assert.Equal(t, "weight", fe.Field)
	assert.Equal(t, "12", fe.Value)
	assert.Equal(t, "FieldType(42)", fe.TypeName)
}

func TestNewExpressionDateFormat(t *testing.T) {
	_, err := NewExpression("created", Field{Type: Timestamp, Format: "INVALID"}, "2024")
	require.Error(t, err)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindDateFormat, fe.Kind)
	assert.Empty(t, fe.Field)
	assert.Equal(t, "INVALID", fe.Value)
	assert.NotNil(t, fe.Unwrap())
}

func TestBuildCondition(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		raw   string
		want  string
	}{
		{"equal", Field{Type: Integer}, "1", "f = 1"},
		{"not equal", Field{Type: Integer}, "not_1", "f != 1"},
		{"null", Field{Type: Integer}, "null", "f is null"},
		{"not null", Field{Type: Integer}, "not_null", "f is not null"},
		{"less than", Field{Type: Long}, "lt_5", "f < 5"},
		{"greater than", Field{Type: Double}, "gt_2.5", "f > 2.5"},
		{"not less than", Field{Type: Long}, "not_lt_5", "not(f < 5)"},
		{"between", Field{Type: Integer}, "1_bt_5", "f between 1 and 5"},
		{"not between", Field{Type: Integer}, "not_1_bt_5", "not(f between 1 and 5)"},
		{"or", Field{Type: Integer}, "lt_5|gt_10", "or(f < 5, f > 10)"},
		{"text equal folds case", Field{Type: Text}, "abc", "upper(f) = ABC"},
		{"text not equal", Field{Type: Text}, "not_abc", "upper(f) != ABC"},
		{"text null uses raw field", Field{Type: Text}, "null", "f is null"},
		{"text like", Field{Type: Text}, "lk_*ab*", "upper(f) like %AB%"},
		{"text not like", Field{Type: Text}, "not_lk_*ab*", "upper(f) not like %AB%"},
		{"text between", Field{Type: Text}, "a_bt_c", "upper(f) between A and C"},
		{"boolean", Field{Type: Boolean}, "TRUE", "f = true"},
		{"boolean permissive", Field{Type: Boolean}, "yes", "f = false"},
		{"boolean ignores ordering", Field{Type: Boolean}, "lt_5", "f = false"},
		{"only separators match nothing", Field{Type: Integer}, "|", "or()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := NewExpression("f", tt.field, tt.raw)
			require.NoError(t, err)

			got, err := BuildCondition[string, string](textBackend{}, expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildConditionBetweenBoundsAreTyped(t *testing.T) {
	var values []any
	b := valueBackend{values: &values}

	expr, err := NewExpression("f", Field{Type: Integer}, "1_BT_5")
	require.NoError(t, err)

	got, err := BuildCondition[string, string](b, expr)
	require.NoError(t, err)
	assert.Equal(t, "f between 1 and 5", got)
	assert.Equal(t, []any{int32(1), int32(5)}, values)
}

func TestBuildConditionParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		raw   string
		kind  ErrorKind
		value string
	}{
		{"integer", Field{Type: Integer}, "abc", KindInteger, "abc"},
		{"integer in or", Field{Type: Integer}, "1|x", KindInteger, "x"},
		{"integer lower bound", Field{Type: Integer}, "a_bt_5", KindInteger, "a"},
		{"integer upper bound", Field{Type: Integer}, "1_bt_b", KindInteger, "b"},
		{"long", Field{Type: Long}, "gt_1.5", KindLong, "1.5"},
		{"float", Field{Type: Float}, "lt_one", KindFloat, "one"},
		{"double", Field{Type: Double}, "x", KindDouble, "x"},
		{"uuid", Field{Type: UUID}, "not-a-uuid", KindUUID, "not-a-uuid"},
		{"date", Field{Type: Timestamp}, "bad", KindDate, "bad"},
		{"date with format", Field{Type: Timestamp, Format: "%Y-%m-%d"}, "bad", KindDate, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := NewExpression("f", tt.field, tt.raw)
			require.NoError(t, err)

			got, err := BuildCondition[string, string](textBackend{}, expr)
			require.Error(t, err)
			assert.Empty(t, got)

			var fe *Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.kind, fe.Kind)
			assert.Equal(t, "f", fe.Field)
			assert.Equal(t, tt.value, fe.Value)
		})
	}
}
