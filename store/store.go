package store

import (
	"context"
	"fmt"

	"github.com/hatlonely/surrealgate/ref"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/pkg/errors"
)

// Result 存储端返回数组中的第一个元素
type Result = map[string]any

// Client 执行单条语句，实现需要支持并发调用
type Client interface {
	Execute(ctx context.Context, stmt statement.Statement) (Result, error)
	Close() error
}

var ErrEmptyResponse = errors.New("empty response")

// TransportError 网络、状态码、解码以及空响应等错误
type TransportError struct {
	Statement string
	Cause     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("execute statement failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Namespace 本包注册构造函数使用的 namespace，即包路径
const Namespace = "github.com/hatlonely/surrealgate/store"

func init() {
	ref.MustRegisterT[HTTPClient](NewHTTPClientWithOptions)
	ref.MustRegisterT[FreeCache](NewFreeCacheWithOptions)
	ref.MustRegisterT[RedisCache](NewRedisCacheWithOptions)
}

// NewClientWithOptions 根据类型名创建客户端，Namespace 为空时使用本包
func NewClientWithOptions(options *ref.TypeOptions) (Client, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	typeOptions := *options
	if typeOptions.Namespace == "" {
		typeOptions.Namespace = Namespace
	}

	obj, err := ref.NewWithOptions(&typeOptions)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create client")
	}

	client, ok := obj.(Client)
	if !ok {
		return nil, errors.Errorf("%s does not implement Client interface", typeOptions.Type)
	}
	return client, nil
}
