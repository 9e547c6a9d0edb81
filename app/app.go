package app

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hatlonely/surrealgate/cfg"
	"github.com/hatlonely/surrealgate/cfg/validator"
	"github.com/hatlonely/surrealgate/log"
	"github.com/hatlonely/surrealgate/log/writer"
	"github.com/hatlonely/surrealgate/router"
	"github.com/hatlonely/surrealgate/schema"
	"github.com/hatlonely/surrealgate/server"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/hatlonely/surrealgate/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

// EnvPrefix 环境变量覆盖配置，例如 SURREALGATE_DATABASE__PASSWORD
const EnvPrefix = "SURREALGATE_"

type App struct {
	options *Options

	logger    log.Logger
	logWriter writer.Writer
	registry  *schema.Registry
	client    store.Client
	router    *router.Router
	database  *router.Database
	metrics   *prometheus.Registry
	fiber     *fiber.App
}

// Load 读取配置文件并创建 App
func Load(filename string) (*App, error) {
	var options Options
	if err := cfg.LoadWithEnv(filename, EnvPrefix, &options); err != nil {
		return nil, errors.WithMessage(err, "load config failed")
	}
	return NewAppWithOptions(&options)
}

// NewAppWithOptions 先构造所有表结构，再创建客户端和路由，最后注册 HTTP 路由
func NewAppWithOptions(options *Options) (*App, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	// 直接构造的 options 同样需要默认值和校验
	if err := cfg.SetDefaults(options); err != nil {
		return nil, errors.WithMessage(err, "set defaults failed")
	}
	if err := validator.ValidateStruct(options); err != nil {
		return nil, errors.Wrap(err, "validate options failed")
	}

	a := &App{options: options}

	l, w, err := log.NewLogWithOptions(&options.Logger)
	if err != nil {
		return nil, errors.WithMessage(err, "create logger failed")
	}
	a.logger, a.logWriter = l, w

	tables := options.Tables
	if options.SchemaFile != "" {
		var sf schemaFile
		if err := cfg.Load(options.SchemaFile, &sf); err != nil {
			_ = a.Close()
			return nil, errors.WithMessagef(err, "load schema file %s failed", options.SchemaFile)
		}
		tables = append(append([]schema.TableOptions{}, tables...), sf.Tables...)
	}

	a.registry, err = schema.NewRegistryWithOptions(tables)
	if err != nil {
		_ = a.Close()
		return nil, errors.WithMessage(err, "build registry failed")
	}

	a.metrics = prometheus.NewRegistry()
	a.metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.client, err = a.newClient()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.database = router.NewDatabaseWithOptions(&options.Database.DatabaseOptions)
	a.router = router.NewRouter(a.registry, a.client, statement.NewBuilderWithOptions(&options.Statement), a.logger)

	a.fiber = server.NewApp(&options.Server, a.logger)
	server.RegisterRoutes(a.fiber, server.NewHandler(a.router, a.database, a.logger), a.metrics)

	a.logger.Info("app initialized",
		"tables", a.registry.Len(),
		"database", a.database.Name(),
		"cache", options.Cache.Enable,
	)

	return a, nil
}

// newClient 存储客户端 -> 观测 -> 缓存
func (a *App) newClient() (store.Client, error) {
	var client store.Client
	var err error
	if a.options.Store != nil {
		client, err = store.NewClientWithOptions(a.options.Store)
	} else {
		db := a.options.Database
		client, err = store.NewHTTPClientWithOptions(&store.HTTPClientOptions{
			Endpoint:  db.URL,
			Namespace: db.Namespace,
			Database:  db.Database,
			Username:  db.Username,
			Password:  db.Password,
			Timeout:   db.Timeout,

			MaxResponseSize: db.MaxResponseSize,
		})
	}
	if err != nil {
		return nil, errors.WithMessage(err, "create store client failed")
	}

	client, err = store.NewObservableClientWithOptions(client, &store.ObservableClientOptions{
		EnableMetrics: a.options.Metrics.Enable,
		EnableLogging: true,
		EnableTracing: a.options.Tracing.Enable,
		Name:          a.options.Metrics.Name,
	}, a.metrics, a.logger)
	if err != nil {
		return nil, errors.WithMessage(err, "create observable client failed")
	}

	if a.options.Cache.Enable {
		client, err = store.NewCachedClientWithOptions(client, &a.options.Cache.CachedClientOptions, a.logger)
		if err != nil {
			return nil, errors.WithMessage(err, "create cached client failed")
		}
	}

	return client, nil
}

func (a *App) Registry() *schema.Registry {
	return a.registry
}

func (a *App) Router() *router.Router {
	return a.router
}

func (a *App) Fiber() *fiber.App {
	return a.fiber
}

func (a *App) Logger() log.Logger {
	return a.logger
}

// Run 监听端口直到 ctx 结束
func (a *App) Run(ctx context.Context) error {
	if a.options.CreateTablesOnStart {
		report := a.router.CreateTables(ctx)
		if report.Failed > 0 {
			a.logger.Warn("some create table statements failed", "failed", report.Failed)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", a.options.Server.Addr)
		errCh <- a.fiber.Listen(a.options.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen failed")
	case <-ctx.Done():
		a.logger.Info("server shutting down")
		if err := a.fiber.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return errors.Wrap(err, "shutdown failed")
		}
		return nil
	}
}

func (a *App) Close() error {
	var err error
	if a.client != nil {
		if e := a.client.Close(); e != nil {
			err = errors.Wrap(e, "close client failed")
		}
	}
	if a.logWriter != nil {
		if e := a.logWriter.Close(); e != nil && err == nil {
			err = errors.Wrap(e, "close log writer failed")
		}
	}
	return err
}
