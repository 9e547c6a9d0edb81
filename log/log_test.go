package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hatlonely/surrealgate/log/logger"
	"github.com/hatlonely/surrealgate/ref"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewLogWithOptions(t *testing.T) {
	Convey("NewLogWithOptions", t, func() {
		Convey("nil options", func() {
			_, _, err := NewLogWithOptions(nil)
			So(err, ShouldNotBeNil)
		})

		Convey("默认输出到控制台", func() {
			l, w, err := NewLogWithOptions(&Options{})
			So(err, ShouldBeNil)
			So(l, ShouldNotBeNil)
			So(w.Close(), ShouldBeNil)
		})

		Convey("输出到文件，options 为 map", func() {
			path := filepath.Join(t.TempDir(), "gateway.log")
			l, w, err := NewLogWithOptions(&Options{
				SLogOptions: logger.SLogOptions{Level: "debug", Format: "json"},
				Output: &ref.TypeOptions{
					Type:    "FileWriter",
					Options: map[string]any{"path": path},
				},
			})
			So(err, ShouldBeNil)
			l.Debug("statement executed", "statement", "SELECT * FROM user")
			So(w.Close(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "SELECT * FROM user")
		})

		Convey("未知输出类型", func() {
			_, _, err := NewLogWithOptions(&Options{Output: &ref.TypeOptions{Type: "KafkaWriter"}})
			So(err, ShouldNotBeNil)
		})

		Convey("非法级别", func() {
			_, _, err := NewLogWithOptions(&Options{SLogOptions: logger.SLogOptions{Level: "verbose"}})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Default", t, func() {
		So(Default(), ShouldNotBeNil)
	})
}
