package statement

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/hatlonely/surrealgate/record"
	"github.com/stretchr/testify/assert"
)

func TestIdent(t *testing.T) {
	assert.Equal(t, "name", Ident("name"))
	assert.Equal(t, "name.first", Ident("name.first"))
	assert.Equal(t, "tags.*", Ident("tags.*"))
	assert.Equal(t, "`first name`", Ident("first name"))
	assert.Equal(t, "name.`last-name`", Ident("name.last-name"))
	assert.Equal(t, "`a\\`b`", Ident("a`b"))
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "user:1", RecordID("user", "1"))
	assert.Equal(t, "user:tobie", RecordID("user", "user:tobie"))
	assert.Equal(t, "user:⟨post:1⟩", RecordID("user", "post:1"))
	assert.Equal(t, "user:7", RecordID("user", 7))
	assert.Equal(t, "user:7", RecordID("user", float64(7)))
	assert.Equal(t, `user:⟨a\⟩b⟩`, RecordID("user", "a⟩b"))
	assert.Equal(t, "user:12345678901234567890", RecordID("user", json.Number("12345678901234567890")))
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "NULL", Literal(nil))
	assert.Equal(t, "'x'", Literal("x"))
	assert.Equal(t, `'it\'s'`, Literal("it's"))
	assert.Equal(t, "true", Literal(true))
	assert.Equal(t, "-3", Literal(int64(-3)))
	assert.Equal(t, "1.5", Literal(1.5))
	assert.Equal(t, "2.0", Literal(2.0))
	assert.Equal(t, "'NaN'", Literal(math.NaN()))
	assert.Equal(t, "12345678901234567890", Literal(json.Number("12345678901234567890")))
	assert.Equal(t, "'1; DELETE user'", Literal(json.Number("1; DELETE user")))
	assert.Equal(t, "{}", Literal(record.Record{}))
	assert.Equal(t, "{ a: 1, 'b c': 'd' }", Literal(record.Record{{Key: "a", Value: 1}, {Key: "b c", Value: "d"}}))
	assert.Equal(t, "{ a: 1, b: NULL }", Literal(map[string]any{"b": nil, "a": 1}))
	assert.Equal(t, "[1, 'x', [true]]", Literal([]any{1, "x", []any{true}}))
	assert.Equal(t, "['a', 'b']", Literal([]string{"a", "b"}))
}

func TestStringLiteral(t *testing.T) {
	assert.Equal(t, "'x'", StringLiteral("x"))
	assert.Equal(t, "'3'", StringLiteral(int64(3)))
	assert.Equal(t, "'true'", StringLiteral(true))
	assert.Equal(t, "'null'", StringLiteral(nil))
	assert.Equal(t, `'{"first":"T"}'`, StringLiteral(record.Record{{Key: "first", Value: "T"}}))
	assert.Equal(t, `'[1,"a"]'`, StringLiteral([]any{1, "a"}))
}
