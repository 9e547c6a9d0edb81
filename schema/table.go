package schema

import (
	"github.com/hatlonely/surrealgate/record"
	"github.com/pkg/errors"
)

var (
	ErrInvalidSchema  = errors.New("invalid schema")
	ErrDuplicateTable = errors.New("duplicate table")
	ErrTableNotFound  = errors.New("table not found")
)

// FieldOptions 字段配置
type FieldOptions struct {
	Name   string `cfg:"name" validate:"required"`
	Type   string `cfg:"type" validate:"required"`
	Assert string `cfg:"assert"`
	Value  string `cfg:"value"`
}

// TableOptions 表配置
type TableOptions struct {
	Name         string              `cfg:"name" validate:"required"`
	Description  string              `cfg:"description"`
	Schemafull   bool                `cfg:"schemafull"`
	Capabilities CapabilitiesOptions `cfg:"capabilities"`
	Fields       []FieldOptions      `cfg:"fields" validate:"dive"`
}

// TableSchema 表结构，构造完成后只读
type TableSchema struct {
	name         string
	description  string
	fields       []FieldSpec
	schemafull   bool
	capabilities Capabilities
}

// NewTableSchemaWithOptions 校验并构造表结构
// 表名会原样写入语句，必须是合法标识符；字段名不能重复
func NewTableSchemaWithOptions(options *TableOptions) (*TableSchema, error) {
	if options == nil {
		return nil, errors.WithMessage(ErrInvalidSchema, "options is nil")
	}
	if !IsIdent(options.Name) {
		return nil, errors.WithMessagef(ErrInvalidSchema, "table name %q is not a valid identifier", options.Name)
	}

	table := &TableSchema{
		name:         options.Name,
		description:  options.Description,
		fields:       make([]FieldSpec, 0, len(options.Fields)),
		schemafull:   options.Schemafull,
		capabilities: NewCapabilities(&options.Capabilities),
	}

	names := make(map[string]struct{}, len(options.Fields))
	for _, fieldOptions := range options.Fields {
		if !IsFieldPath(fieldOptions.Name) {
			return nil, errors.WithMessagef(ErrInvalidSchema, "table %s: field name %q is not a valid field path", options.Name, fieldOptions.Name)
		}
		if _, ok := names[fieldOptions.Name]; ok {
			return nil, errors.WithMessagef(ErrInvalidSchema, "table %s: duplicate field %q", options.Name, fieldOptions.Name)
		}
		fieldType := FieldType(fieldOptions.Type)
		if !fieldType.Valid() {
			return nil, errors.WithMessagef(ErrInvalidSchema, "table %s: field %s has invalid type %q", options.Name, fieldOptions.Name, fieldOptions.Type)
		}

		names[fieldOptions.Name] = struct{}{}
		table.fields = append(table.fields, FieldSpec{
			Name:   fieldOptions.Name,
			Type:   fieldType,
			Assert: fieldOptions.Assert,
			Value:  fieldOptions.Value,
		})
	}

	return table, nil
}

// MustNewTableSchema 用于启动阶段的静态表定义
func MustNewTableSchema(options *TableOptions) *TableSchema {
	table, err := NewTableSchemaWithOptions(options)
	if err != nil {
		panic(err)
	}
	return table
}

func (t *TableSchema) Name() string {
	return t.name
}

func (t *TableSchema) Description() string {
	return t.description
}

func (t *TableSchema) Schemafull() bool {
	return t.schemafull
}

func (t *TableSchema) Capabilities() Capabilities {
	return t.capabilities
}

// Fields 按定义顺序返回字段的副本
func (t *TableSchema) Fields() []FieldSpec {
	fields := make([]FieldSpec, len(t.fields))
	copy(fields, t.fields)
	return fields
}

func (t *TableSchema) APIRoute() string {
	return "/api/v1/" + t.name
}

// Info 表的元数据，字段按定义顺序输出
func (t *TableSchema) Info() record.Record {
	fields := make(record.Record, 0, len(t.fields))
	for _, field := range t.fields {
		properties := record.Record{{Key: "type", Value: string(field.Type)}}
		if field.Assert != "" {
			properties = append(properties, record.Field{Key: "assertion", Value: field.Assert})
		}
		if field.Value != "" {
			properties = append(properties, record.Field{Key: "value", Value: field.Value})
		}
		fields = append(fields, record.Field{Key: field.Name, Value: properties})
	}

	return record.Record{
		{Key: "name", Value: t.name},
		{Key: "description", Value: t.description},
		{Key: "schemafull", Value: t.schemafull},
		{Key: "api_route", Value: t.APIRoute()},
		{Key: "apis_enabled", Value: t.capabilities.Map()},
		{Key: "fields", Value: fields},
	}
}
