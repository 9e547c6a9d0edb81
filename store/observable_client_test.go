package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/hatlonely/surrealgate/log/logger"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestObservableClient(t *testing.T) {
	Convey("ObservableClient", t, func() {
		var buf bytes.Buffer
		l, err := logger.NewSLogWithOptions(&logger.SLogOptions{Level: "debug", Format: "json"}, &buf)
		So(err, ShouldBeNil)

		inner := &fakeClient{result: Result{"status": "OK"}}
		registry := prometheus.NewRegistry()
		client, err := NewObservableClientWithOptions(inner, &ObservableClientOptions{
			EnableMetrics: true,
			EnableLogging: true,
			EnableTracing: true,
			Name:          "test",
		}, registry, l)
		So(err, ShouldBeNil)

		stmt := statement.Statement{Table: "user", Kind: statement.KindInsert, Text: "INSERT INTO user (a) VALUES (1);"}

		Convey("成功", func() {
			result, err := client.Execute(context.Background(), stmt)
			So(err, ShouldBeNil)
			So(result["status"], ShouldEqual, "OK")
			So(testutil.ToFloat64(client.metrics.statementCounter.WithLabelValues("user", "insert", "success")), ShouldEqual, 1)
			So(testutil.ToFloat64(client.metrics.activeStatements), ShouldEqual, 0)
			So(buf.String(), ShouldContainSubstring, "statement executed")
			So(buf.String(), ShouldContainSubstring, `"table":"user"`)
		})

		Convey("失败", func() {
			inner.err = &TransportError{Statement: stmt.Text, Cause: ErrEmptyResponse}
			_, err := client.Execute(context.Background(), stmt)
			So(errors.Is(err, ErrEmptyResponse), ShouldBeTrue)
			So(testutil.ToFloat64(client.metrics.statementCounter.WithLabelValues("user", "insert", "error")), ShouldEqual, 1)
			So(buf.String(), ShouldContainSubstring, "statement failed")
		})

		Convey("重复注册指标", func() {
			_, err := NewObservableClientWithOptions(inner, &ObservableClientOptions{EnableMetrics: true, Name: "test"}, registry, l)
			So(err, ShouldNotBeNil)
		})

		Convey("Close 透传", func() {
			So(client.Close(), ShouldBeNil)
			So(inner.closed, ShouldBeTrue)
		})
	})

	Convey("参数检查", t, func() {
		_, err := NewObservableClientWithOptions(nil, &ObservableClientOptions{}, nil, nil)
		So(err, ShouldNotBeNil)
		_, err = NewObservableClientWithOptions(&fakeClient{}, nil, nil, nil)
		So(err, ShouldNotBeNil)

		client, err := NewObservableClientWithOptions(&fakeClient{}, &ObservableClientOptions{Name: "quiet"}, nil, nil)
		So(err, ShouldBeNil)
		So(client.metrics, ShouldBeNil)
		So(client.logger, ShouldBeNil)
		So(client.tracer, ShouldBeNil)
	})
}
