package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/hatlonely/surrealgate/log"
	"github.com/hatlonely/surrealgate/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Addr         string        `cfg:"addr" def:":5000"`
	BodyLimit    int           `cfg:"bodyLimit" def:"4194304"`
	ReadTimeout  time.Duration `cfg:"readTimeout" def:"30s"`
	WriteTimeout time.Duration `cfg:"writeTimeout" def:"30s"`
}

// NewApp 创建 fiber 应用，未匹配的路由和未处理的错误都返回 {"error": ...}
func NewApp(options *Options, logger log.Logger) *fiber.App {
	if logger == nil {
		logger = log.Default()
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             options.BodyLimit,
		ReadTimeout:           options.ReadTimeout,
		WriteTimeout:          options.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			if status >= fiber.StatusInternalServerError {
				logger.ErrorContext(requestContext(c), "request failed", "path", c.Path(), "error", err.Error())
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(RequestID())
	app.Use(AccessLog(logger))

	return app
}

// RegisterRoutes 表结构全部注册完成后调用，每个路由绑定具体的表名
// 被关闭的操作仍然注册路由，由 router 拒绝
func RegisterRoutes(app *fiber.App, h *Handler, gatherer prometheus.Gatherer) {
	for _, table := range h.router.Registry().All() {
		for _, op := range router.Ops {
			app.Post(table.APIRoute()+"/"+string(op), h.Invoke(table.Name(), op))
		}
	}

	db := app.Group(h.database.APIRoute())
	db.Post("/info", h.DatabaseInfo)
	db.Post("/create_tables", h.CreateTables)
	db.Get("/definitions/:table", h.Definitions)

	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "API route not available"})
	})
}
