package log

import (
	"os"

	"github.com/hatlonely/surrealgate/log/logger"
	"github.com/hatlonely/surrealgate/log/writer"
	"github.com/hatlonely/surrealgate/ref"
	"github.com/pkg/errors"
)

type Logger = logger.Logger

const writerNamespace = "github.com/hatlonely/surrealgate/log/writer"

func init() {
	// 注册输出器，Output.Type 可以写 ConsoleWriter / FileWriter
	ref.MustRegisterT[writer.ConsoleWriter](writer.NewConsoleWriterWithOptions)
	ref.MustRegisterT[writer.FileWriter](writer.NewFileWriterWithOptions)
}

// Options 日志配置
type Options struct {
	logger.SLogOptions `cfg:",squash"`

	// 输出目标，默认输出到控制台
	Output *ref.TypeOptions `cfg:"output"`
}

var defaultLogger Logger

func init() {
	l, err := logger.NewSLogWithOptions(&logger.SLogOptions{Level: "info", Format: "text"}, os.Stdout)
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger = l
}

// Default 进程级默认日志器，输出 text 格式到 stdout
func Default() Logger {
	return defaultLogger
}

// NewLogWithOptions 根据配置创建日志器，返回的 writer 需要在退出时关闭
func NewLogWithOptions(options *Options) (Logger, writer.Writer, error) {
	if options == nil {
		return nil, nil, errors.New("options cannot be nil")
	}

	var output ref.TypeOptions
	if options.Output != nil {
		output = *options.Output
	}
	if output.Type == "" {
		output.Type = "ConsoleWriter"
	}
	if output.Namespace == "" {
		output.Namespace = writerNamespace
	}

	obj, err := ref.NewWithOptions(&output)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "failed to create writer")
	}
	w, ok := obj.(writer.Writer)
	if !ok {
		return nil, nil, errors.Errorf("%s does not implement Writer interface", output.Type)
	}

	l, err := logger.NewSLogWithOptions(&options.SLogOptions, w)
	if err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	return l, w, nil
}
