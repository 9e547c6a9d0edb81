package statement

import (
	"strings"

	"github.com/hatlonely/surrealgate/record"
	"github.com/hatlonely/surrealgate/schema"
	"github.com/pkg/errors"
)

type Options struct {
	// 所有值都按字符串字面量输出，兼容旧版本的语句
	QuoteAllValues bool `cfg:"quoteAllValues"`
}

// Builder 根据表结构和记录生成语句，无状态，可并发使用
type Builder struct {
	literal func(v any) string
}

func NewBuilder() *Builder {
	return NewBuilderWithOptions(&Options{})
}

func NewBuilderWithOptions(options *Options) *Builder {
	if options != nil && options.QuoteAllValues {
		return &Builder{literal: StringLiteral}
	}
	return &Builder{literal: Literal}
}

// Definitions 建表语句，第一条定义表，之后每个字段一条，顺序与字段定义一致
func (b *Builder) Definitions(table *schema.TableSchema) []Statement {
	strictness := "SCHEMALESS"
	if table.Schemafull() {
		strictness = "SCHEMAFULL"
	}

	fields := table.Fields()
	statements := make([]Statement, 0, len(fields)+1)
	statements = append(statements, Statement{
		Table: table.Name(),
		Kind:  KindDefine,
		Text:  "DEFINE TABLE " + table.Name() + " " + strictness + ";",
	})

	for _, field := range fields {
		var sb strings.Builder
		sb.WriteString("DEFINE FIELD ")
		sb.WriteString(Ident(field.Name))
		sb.WriteString(" ON TABLE ")
		sb.WriteString(table.Name())
		sb.WriteString(" TYPE ")
		sb.WriteString(string(field.Type))
		if field.Assert != "" {
			sb.WriteString(" ASSERT ")
			sb.WriteString(field.Assert)
		}
		if field.Value != "" {
			sb.WriteString(" VALUE ")
			sb.WriteString(field.Value)
		}
		sb.WriteString(";")
		statements = append(statements, Statement{Table: table.Name(), Kind: KindDefine, Text: sb.String()})
	}

	return statements
}

// Insert INSERT INTO <t> (k1, k2) VALUES (v1, v2);
func (b *Builder) Insert(table *schema.TableSchema, r record.Record) (Statement, error) {
	if len(r) == 0 {
		return Statement{}, errors.WithMessagef(ErrEmptyRecord, "insert into %s", table.Name())
	}

	keys := make([]string, 0, len(r))
	values := make([]string, 0, len(r))
	for _, f := range r {
		keys = append(keys, Ident(f.Key))
		values = append(values, b.literal(f.Value))
	}

	return Statement{
		Table: table.Name(),
		Kind:  KindInsert,
		Text:  "INSERT INTO " + table.Name() + " (" + strings.Join(keys, ", ") + ") VALUES (" + strings.Join(values, ", ") + ");",
	}, nil
}

// Select 没有 id 时全表查询，否则按 id 查询，不支持其他条件
func (b *Builder) Select(table *schema.TableSchema, r record.Record) Statement {
	text := "SELECT * FROM " + table.Name()
	if id, ok := r.ID(); ok {
		text = "SELECT * FROM " + RecordID(table.Name(), id)
	}
	return Statement{Table: table.Name(), Kind: KindSelect, Text: text}
}

// Delete 记录的第一个键必须是 id
func (b *Builder) Delete(table *schema.TableSchema, r record.Record) (Statement, error) {
	if len(r) == 0 {
		return Statement{}, errors.WithMessagef(ErrInvalidKey, "delete from %s: record is empty", table.Name())
	}
	if r[0].Key != "id" {
		return Statement{}, errors.WithMessagef(ErrInvalidKey, "delete from %s: key %q is not id", table.Name(), r[0].Key)
	}
	if !record.Truthy(r[0].Value) {
		return Statement{}, errors.WithMessagef(ErrInvalidKey, "delete from %s: id is empty", table.Name())
	}

	return Statement{
		Table: table.Name(),
		Kind:  KindDelete,
		Text:  "DELETE " + RecordID(table.Name(), r[0].Value) + ";",
	}, nil
}

// Update 更新除 id 外的所有字段，没有其他字段时仍然生成语句，由存储端拒绝
func (b *Builder) Update(table *schema.TableSchema, r record.Record) (Statement, error) {
	id, ok := r.ID()
	if !ok {
		return Statement{}, errors.WithMessagef(ErrMissingID, "update %s", table.Name())
	}

	fields := r.Without("id")
	sets := make([]string, 0, len(fields))
	for _, f := range fields {
		sets = append(sets, Ident(f.Key)+" = "+b.literal(f.Value))
	}

	return Statement{
		Table: table.Name(),
		Kind:  KindUpdate,
		Text:  "UPDATE " + RecordID(table.Name(), id) + " SET " + strings.Join(sets, ", ") + ";",
	}, nil
}
