package record

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"sort"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrInvalidRecord = errors.New("invalid record")

// Field 记录中的一个键值对
type Field struct {
	Key   string
	Value any
}

// Record 有序的键值集合，顺序即请求体中键出现的顺序
// 生成的 INSERT/UPDATE 语句按此顺序输出列
type Record []Field

// Parse 解析 JSON 对象并保留键的顺序
// 空内容和 null 视为空记录，嵌套对象解析为 Record，数组解析为 []any
// 重复的键保留第一次出现的位置，取最后一次的值
// 整数解析为 int64，超出范围的整数保留原文（json.Number），小数解析为 float64
func Parse(data []byte) (Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Record{}, nil
	}
	if data[0] != '{' {
		return nil, errors.WithMessage(ErrInvalidRecord, "body must be a json object")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, errors.WithMessagef(ErrInvalidRecord, "unmarshal json failed: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.WithMessage(ErrInvalidRecord, "unexpected data after json object")
	}

	return fromDocument(value.(bson.D)), nil
}

// decodeValue 按 token 读取一个值，对象读入 bson.D，数组读入 bson.A
// 不做 Extended JSON 的解释，$date、$oid 等键按普通键处理
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			doc := bson.D{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.Errorf("object key must be a string, got %v", keyTok)
				}
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				doc = append(doc, bson.E{Key: key, Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return doc, nil
		case '[':
			arr := bson.A{}
			for dec.More() {
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, errors.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return parseNumber(t), nil
	default:
		// string、bool、nil
		return t, nil
	}
}

var integerRegexp = regexp.MustCompile(`^-?[0-9]+$`)

func parseNumber(n json.Number) any {
	if integerRegexp.MatchString(n.String()) {
		if i, err := n.Int64(); err == nil {
			return i
		}
		return n
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n
}

// fromDocument 相同的键合并为一个，位置取第一次出现，值取最后一次
func fromDocument(doc bson.D) Record {
	r := make(Record, 0, len(doc))
	index := make(map[string]int, len(doc))
	for _, e := range doc {
		value := normalize(e.Value)
		if i, ok := index[e.Key]; ok {
			r[i].Value = value
			continue
		}
		index[e.Key] = len(r)
		r = append(r, Field{Key: e.Key, Value: value})
	}
	return r
}

func normalize(v any) any {
	switch val := v.(type) {
	case bson.D:
		return fromDocument(val)
	case bson.A:
		items := make([]any, 0, len(val))
		for _, item := range val {
			items = append(items, normalize(item))
		}
		return items
	default:
		return val
	}
}

// FromMap 从无序 map 构造，按键排序
func FromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := make(Record, 0, len(keys))
	for _, k := range keys {
		r = append(r, Field{Key: k, Value: m[k]})
	}
	return r
}

func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, f := range r {
		keys = append(keys, f.Key)
	}
	return keys
}

func (r Record) Len() int {
	return len(r)
}

// Without 去掉所有指定键后的副本
func (r Record) Without(key string) Record {
	result := make(Record, 0, len(r))
	for _, f := range r {
		if f.Key != key {
			result = append(result, f)
		}
	}
	return result
}

// MarshalJSON 按顺序输出对象
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal key %s failed", f.Key)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal value of %s failed", f.Key)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
