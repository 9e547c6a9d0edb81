package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hatlonely/surrealgate/log"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ObservableClientOptions struct {
	// EnableMetrics 是否启用指标收集
	EnableMetrics bool `cfg:"enableMetrics"`

	// EnableLogging 是否启用日志记录
	EnableLogging bool `cfg:"enableLogging"`

	// EnableTracing 是否启用分布式追踪
	EnableTracing bool `cfg:"enableTracing"`

	// Name 组件名称标识
	// - Metrics: 作为指标名前缀
	// - Logging: 作为 component 字段值
	// - Tracing: 作为 tracer 名称和 span 的 component 属性
	Name string `cfg:"name" def:"surrealgate"`
}

// ObservableMetrics 封装 prometheus 指标
type ObservableMetrics struct {
	statementCounter  *prometheus.CounterVec
	statementDuration *prometheus.HistogramVec
	activeStatements  prometheus.Gauge
}

// NewObservableMetrics 创建指标并注册到 registerer
func NewObservableMetrics(name string, registerer prometheus.Registerer) (*ObservableMetrics, error) {
	metrics := &ObservableMetrics{
		statementCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name + "_statements_total",
				Help: "Total number of executed statements",
			},
			[]string{"table", "kind", "status"},
		),
		statementDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_statement_duration_seconds",
				Help:    "Duration of statements in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"table", "kind"},
		),
		activeStatements: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: name + "_active_statements",
				Help: "Number of in-flight statements",
			},
		),
	}

	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	for _, collector := range []prometheus.Collector{
		metrics.statementCounter,
		metrics.statementDuration,
		metrics.activeStatements,
	} {
		if err := registerer.Register(collector); err != nil {
			return nil, errors.Wrap(err, "register metrics failed")
		}
	}

	return metrics, nil
}

// ObservableClient 装饰器，为任何 Client 添加指标、日志和追踪
type ObservableClient struct {
	client Client

	logger  log.Logger
	metrics *ObservableMetrics
	tracer  trace.Tracer
	name    string
}

func NewObservableClientWithOptions(client Client, options *ObservableClientOptions, registerer prometheus.Registerer, logger log.Logger) (*ObservableClient, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}
	if options == nil {
		return nil, errors.New("options is nil")
	}

	obs := &ObservableClient{
		client: client,
		name:   options.Name,
	}

	if options.EnableLogging {
		if logger == nil {
			logger = log.Default()
		}
		obs.logger = logger.WithGroup("store")
	}

	if options.EnableMetrics {
		metrics, err := NewObservableMetrics(options.Name, registerer)
		if err != nil {
			return nil, err
		}
		obs.metrics = metrics
	}

	if options.EnableTracing {
		obs.tracer = otel.Tracer(fmt.Sprintf("store.%s", options.Name))
	}

	return obs, nil
}

func (obs *ObservableClient) Execute(ctx context.Context, stmt statement.Statement) (Result, error) {
	start := time.Now()

	var span trace.Span
	if obs.tracer != nil {
		ctx, span = obs.tracer.Start(ctx, fmt.Sprintf("store.%s", stmt.Kind),
			trace.WithAttributes(
				attribute.String("component", obs.name),
				attribute.String("table", stmt.Table),
				attribute.String("kind", string(stmt.Kind)),
				attribute.String("statement", stmt.Text),
			),
		)
		defer span.End()
	}

	if obs.metrics != nil {
		obs.metrics.activeStatements.Inc()
		defer obs.metrics.activeStatements.Dec()
	}

	result, err := obs.client.Execute(ctx, stmt)
	duration := time.Since(start)

	if span != nil {
		span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if obs.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		obs.metrics.statementCounter.WithLabelValues(stmt.Table, string(stmt.Kind), status).Inc()
		obs.metrics.statementDuration.WithLabelValues(stmt.Table, string(stmt.Kind)).Observe(duration.Seconds())
	}

	if obs.logger != nil {
		if err != nil {
			obs.logger.ErrorContext(ctx, "statement failed",
				"component", obs.name,
				"table", stmt.Table,
				"kind", stmt.Kind,
				"statement", stmt.Text,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		} else {
			obs.logger.DebugContext(ctx, "statement executed",
				"component", obs.name,
				"table", stmt.Table,
				"kind", stmt.Kind,
				"statement", stmt.Text,
				"duration_ms", duration.Milliseconds(),
			)
		}
	}

	return result, err
}

func (obs *ObservableClient) Close() error {
	return obs.client.Close()
}
