package store

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/hatlonely/surrealgate/ref"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeClient 记录调用次数，返回预设的结果
type fakeClient struct {
	calls  atomic.Int64
	result Result
	err    error
	closed bool
}

func (c *fakeClient) Execute(ctx context.Context, stmt statement.Statement) (Result, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

func TestNewClientWithOptions(t *testing.T) {
	Convey("NewClientWithOptions", t, func() {
		Convey("通过类型名创建 HTTPClient", func() {
			client, err := NewClientWithOptions(&ref.TypeOptions{
				Type: "HTTPClient",
				Options: map[string]any{
					"endpoint":  "http://127.0.0.1:8000/sql",
					"namespace": "ns",
					"timeout":   "2s",
				},
			})
			So(err, ShouldBeNil)
			httpClient, ok := client.(*HTTPClient)
			So(ok, ShouldBeTrue)
			So(httpClient.namespace, ShouldEqual, "ns")
			So(httpClient.database, ShouldEqual, "test")
			So(httpClient.client.Timeout.Seconds(), ShouldEqual, 2)
		})

		Convey("构造函数按包路径和类型名注册", func() {
			obj, err := ref.New("github.com/hatlonely/surrealgate/store", "FreeCache", map[string]any{"size": 1024 * 1024})
			So(err, ShouldBeNil)
			_, ok := obj.(*FreeCache)
			So(ok, ShouldBeTrue)

			client, err := NewClientWithOptions(&ref.TypeOptions{Namespace: Namespace, Type: "HTTPClient"})
			So(err, ShouldBeNil)
			So(client, ShouldHaveSameTypeAs, &HTTPClient{})
		})

		Convey("未注册的类型", func() {
			_, err := NewClientWithOptions(&ref.TypeOptions{Type: "GRPCClient"})
			So(err, ShouldNotBeNil)
		})

		Convey("类型不是 Client", func() {
			_, err := NewClientWithOptions(&ref.TypeOptions{Type: "FreeCache"})
			So(err, ShouldNotBeNil)
		})

		Convey("options 为 nil", func() {
			_, err := NewClientWithOptions(nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTransportError(t *testing.T) {
	Convey("TransportError", t, func() {
		err := error(&TransportError{Statement: "SELECT * FROM user", Cause: ErrEmptyResponse})
		So(errors.Is(err, ErrEmptyResponse), ShouldBeTrue)

		var transportErr *TransportError
		So(errors.As(errors.WithMessage(err, "wrapped"), &transportErr), ShouldBeTrue)
		So(transportErr.Statement, ShouldEqual, "SELECT * FROM user")
		So(err.Error(), ShouldContainSubstring, "empty response")
	})
}
