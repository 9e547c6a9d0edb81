package schema

import (
	"regexp"
	"strings"
)

// FieldType 字段类型，对应存储端 DEFINE FIELD ... TYPE 的取值
type FieldType string

const (
	FieldTypeAny      FieldType = "any"
	FieldTypeArray    FieldType = "array"
	FieldTypeBool     FieldType = "bool"
	FieldTypeDatetime FieldType = "datetime"
	FieldTypeDecimal  FieldType = "decimal"
	FieldTypeDuration FieldType = "duration"
	FieldTypeFloat    FieldType = "float"
	FieldTypeInt      FieldType = "int"
	FieldTypeNumber   FieldType = "number"
	FieldTypeObject   FieldType = "object"
	FieldTypeString   FieldType = "string"
	FieldTypeRecord   FieldType = "record"
	FieldTypeGeometry FieldType = "geometry"
	FieldTypeOption   FieldType = "option"
	FieldTypeSet      FieldType = "set"
)

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeAny: {}, FieldTypeArray: {}, FieldTypeBool: {}, FieldTypeDatetime: {},
	FieldTypeDecimal: {}, FieldTypeDuration: {}, FieldTypeFloat: {}, FieldTypeInt: {},
	FieldTypeNumber: {}, FieldTypeObject: {}, FieldTypeString: {}, FieldTypeRecord: {},
	FieldTypeGeometry: {}, FieldTypeOption: {}, FieldTypeSet: {},
}

// Base 返回去掉泛型参数后的基础类型
func (t FieldType) Base() FieldType {
	if idx := strings.IndexByte(string(t), '<'); idx != -1 {
		return t[:idx]
	}
	return t
}

// Valid 基础类型必须已知，泛型参数按 name<arg, arg> 语法检查
// 参数可以是类型、表名、数字或用 | 连接的多个候选，空格只能出现在 , 和 | 两侧
// 例如 array<string>、option<record<user | post>>、array<int, 10>
func (t FieldType) Valid() bool {
	if _, ok := knownFieldTypes[t.Base()]; !ok {
		return false
	}
	p := &typeParser{s: string(t)}
	return p.parseType() && p.pos == len(p.s)
}

type typeParser struct {
	s   string
	pos int
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

// parseType name 或 name<args>
func (p *typeParser) parseType() bool {
	start := p.pos
	for p.pos < len(p.s) && isTypeNameChar(p.s[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return false
	}
	if p.peek() != '<' {
		return true
	}
	p.pos++
	for {
		if !p.parseUnion() {
			return false
		}
		if p.peek() != ',' {
			break
		}
		p.pos++
		p.skipSpaces()
	}
	if p.peek() != '>' {
		return false
	}
	p.pos++
	return true
}

// parseUnion 用 | 连接的一个或多个类型
func (p *typeParser) parseUnion() bool {
	if !p.parseType() {
		return false
	}
	for {
		save := p.pos
		p.skipSpaces()
		if p.peek() != '|' {
			p.pos = save
			return true
		}
		p.pos++
		p.skipSpaces()
		if !p.parseType() {
			return false
		}
	}
}

func (p *typeParser) skipSpaces() {
	for p.peek() == ' ' {
		p.pos++
	}
}

func isTypeNameChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// FieldSpec 字段定义
// 带点号的名字（name.first）表示嵌套对象的子字段，与存储端扁平化的字段路径一致，作为独立字段处理
type FieldSpec struct {
	Name   string
	Type   FieldType
	Assert string // 可选的断言表达式，例如 is::email($value)
	Value  string // 可选的计算值表达式
}

var identRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdent 是否为无需转义的标识符
func IsIdent(s string) bool {
	return identRegexp.MatchString(s)
}

// IsFieldPath 字段路径由点号分隔的标识符组成，允许 * 表示数组元素
func IsFieldPath(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part != "*" && !IsIdent(part) {
			return false
		}
	}
	return true
}
