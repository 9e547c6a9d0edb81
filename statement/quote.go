package statement

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/hatlonely/surrealgate/record"
	"github.com/hatlonely/surrealgate/schema"
)

// 所有拼进语句的标识符和值都必须经过这里

var recordIDRegexp = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var numberRegexp = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Ident 字段名，合法标识符原样输出，否则按段用反引号包裹
func Ident(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if part == "*" || schema.IsIdent(part) {
			continue
		}
		parts[i] = "`" + escape(part, '`') + "`"
	}
	return strings.Join(parts, ".")
}

// RecordID 生成 <table>:<id>
// 字符串 id 可以带 <table>: 前缀；非简单 id 用 ⟨ ⟩ 包裹
func RecordID(table string, id any) string {
	return table + ":" + recordKey(table, id)
}

func recordKey(table string, id any) string {
	switch v := id.(type) {
	case string:
		v = strings.TrimPrefix(v, table+":")
		if recordIDRegexp.MatchString(v) {
			return v
		}
		return "⟨" + escape(v, '⟩') + "⟩"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return strconv.FormatInt(int64(v), 10)
		}
	case json.Number:
		if recordIDRegexp.MatchString(v.String()) {
			return v.String()
		}
	}
	return "⟨" + escape(fmt.Sprint(id), '⟩') + "⟩"
}

// Literal 按值的类型输出字面量
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case json.Number:
		// 超出 int64 的整数，原样输出避免丢失精度
		if numberRegexp.MatchString(val.String()) {
			return val.String()
		}
		return quote(val.String())
	case record.Record:
		return objectLiteral(val)
	case map[string]any:
		return objectLiteral(record.FromMap(val))
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, Literal(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, Literal(rv.Index(i).Interface()))
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return quote(fmt.Sprint(v))
}

// StringLiteral 所有值都输出为字符串字面量，与旧版本生成的语句一致
// 复合值输出为 JSON 文本
func StringLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return quote(val)
	case nil:
		return quote("null")
	case record.Record, map[string]any, []any:
		buf, err := json.Marshal(val)
		if err != nil {
			return quote(fmt.Sprint(val))
		}
		return quote(string(buf))
	}
	return quote(fmt.Sprint(v))
}

func objectLiteral(r record.Record) string {
	if len(r) == 0 {
		return "{}"
	}
	items := make([]string, 0, len(r))
	for _, f := range r {
		key := f.Key
		if !schema.IsIdent(key) {
			key = quote(key)
		}
		items = append(items, key+": "+Literal(f.Value))
	}
	return "{ " + strings.Join(items, ", ") + " }"
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return quote(strconv.FormatFloat(f, 'g', -1, 64))
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	return "'" + escape(s, '\'') + "'"
}

// escape 转义反斜杠和结束符
func escape(s string, closing rune) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		if r == '\\' || r == closing {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
