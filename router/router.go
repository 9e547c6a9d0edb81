package router

import (
	"context"

	"github.com/hatlonely/surrealgate/log"
	"github.com/hatlonely/surrealgate/record"
	"github.com/hatlonely/surrealgate/schema"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/hatlonely/surrealgate/store"
	"github.com/pkg/errors"
)

var (
	ErrCapabilityDisabled = errors.New("capability disabled")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrInvalidData        = errors.New("invalid data, must contain an id")
)

// Op 表上的操作
type Op string

const (
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpInfo   Op = "info"
)

var Ops = []Op{OpRead, OpWrite, OpUpdate, OpDelete, OpInfo}

func (op Op) capability() (schema.Capability, bool) {
	switch op {
	case OpRead:
		return schema.CapabilityRead, true
	case OpWrite:
		return schema.CapabilityWrite, true
	case OpUpdate:
		return schema.CapabilityUpdate, true
	case OpDelete:
		return schema.CapabilityDelete, true
	case OpInfo:
		return schema.CapabilityInfo, true
	}
	return "", false
}

// Status 调用结果的分类，HTTP 层据此选择状态码
type Status string

const (
	StatusOK       Status = "ok"
	StatusNotFound Status = "not_found"
	StatusDisabled Status = "disabled"
	StatusInvalid  Status = "invalid"
	StatusFailed   Status = "failed"
)

// Response Body 为存储端的结果、表信息或 {"error": ...}
type Response struct {
	Status Status
	Body   any
	Err    error
}

// Builder 生成语句，由 *statement.Builder 实现
type Builder interface {
	Definitions(table *schema.TableSchema) []statement.Statement
	Insert(table *schema.TableSchema, r record.Record) (statement.Statement, error)
	Select(table *schema.TableSchema, r record.Record) statement.Statement
	Update(table *schema.TableSchema, r record.Record) (statement.Statement, error)
	Delete(table *schema.TableSchema, r record.Record) (statement.Statement, error)
}

// Router 把对表的操作转换成语句交给存储端执行
// 每次调用之间没有共享的可变状态
type Router struct {
	registry *schema.Registry
	client   store.Client
	builder  Builder
	logger   log.Logger
}

func NewRouter(registry *schema.Registry, client store.Client, builder Builder, logger log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		registry: registry,
		client:   client,
		builder:  builder,
		logger:   logger.WithGroup("router"),
	}
}

func (r *Router) Registry() *schema.Registry {
	return r.registry
}

// Invoke 依次检查表、操作开关、记录，然后生成语句并执行
// 任何一步失败都返回 {"error": ...}，不会继续后面的步骤
func (r *Router) Invoke(ctx context.Context, tableName string, op Op, payload record.Record) Response {
	table, err := r.registry.Find(tableName)
	if err != nil {
		return r.reject(ctx, StatusNotFound, err, record.Record{
			{Key: "error", Value: "table not found"},
			{Key: "table", Value: tableName},
		})
	}

	capability, ok := op.capability()
	if !ok {
		return r.reject(ctx, StatusNotFound, errors.WithMessagef(ErrUnknownOperation, "operation %s", op), record.Record{
			{Key: "error", Value: "unknown operation"},
			{Key: "operation", Value: string(op)},
		})
	}

	if !table.Capabilities().Enabled(capability) {
		return r.reject(ctx, StatusDisabled, errors.WithMessagef(ErrCapabilityDisabled, "%s on %s", op, tableName), record.Record{
			{Key: "error", Value: "API route not available"},
		})
	}

	if op == OpInfo {
		return Response{Status: StatusOK, Body: table.Info()}
	}

	if (op == OpUpdate || op == OpDelete) && !record.Validate(payload) {
		return r.reject(ctx, StatusInvalid, errors.WithMessagef(ErrInvalidData, "%s on %s", op, tableName), record.Record{
			{Key: "error", Value: "Invalid data, must contain an id"},
		})
	}

	stmt, err := r.build(table, op, payload)
	if err != nil {
		return r.reject(ctx, StatusInvalid, err, record.Record{
			{Key: "error", Value: err.Error()},
		})
	}

	result, err := r.client.Execute(ctx, stmt)
	if err != nil {
		return r.reject(ctx, StatusFailed, err, record.Record{
			{Key: "error", Value: "Error in query"},
			{Key: "query", Value: stmt.Text},
			{Key: "exception", Value: err.Error()},
		})
	}

	return Response{Status: StatusOK, Body: result}
}

func (r *Router) build(table *schema.TableSchema, op Op, payload record.Record) (statement.Statement, error) {
	switch op {
	case OpRead:
		return r.builder.Select(table, payload), nil
	case OpWrite:
		return r.builder.Insert(table, payload)
	case OpUpdate:
		return r.builder.Update(table, payload)
	case OpDelete:
		return r.builder.Delete(table, payload)
	}
	return statement.Statement{}, errors.WithMessagef(ErrUnknownOperation, "operation %s", op)
}

// reject 存储端失败记为 error，请求本身的问题记为 info
func (r *Router) reject(ctx context.Context, status Status, err error, body record.Record) Response {
	if status == StatusFailed {
		r.logger.ErrorContext(ctx, "operation failed", "status", status, "error", err.Error())
	} else {
		r.logger.InfoContext(ctx, "operation rejected", "status", status, "error", err.Error())
	}
	return Response{Status: status, Body: body, Err: err}
}

// Definitions 表的建表语句
func (r *Router) Definitions(tableName string) ([]statement.Statement, error) {
	table, err := r.registry.Find(tableName)
	if err != nil {
		return nil, err
	}
	return r.builder.Definitions(table), nil
}

// Info 表的元数据，不经过存储端
func (r *Router) Info(tableName string) (record.Record, error) {
	table, err := r.registry.Find(tableName)
	if err != nil {
		return nil, err
	}
	return table.Info(), nil
}
