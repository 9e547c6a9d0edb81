package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hatlonely/surrealgate/log"
	"github.com/hatlonely/surrealgate/record"
	"github.com/hatlonely/surrealgate/router"
	"github.com/hatlonely/surrealgate/schema"
	"github.com/pkg/errors"
)

type Handler struct {
	router   *router.Router
	database *router.Database
	logger   log.Logger
}

func NewHandler(r *router.Router, database *router.Database, logger log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{router: r, database: database, logger: logger.WithGroup("server")}
}

var routeNotAvailable = fiber.Map{"error": "API route not available"}

func httpStatus(status router.Status) int {
	switch status {
	case router.StatusOK:
		return fiber.StatusOK
	case router.StatusInvalid:
		return fiber.StatusBadRequest
	case router.StatusDisabled:
		return fiber.StatusForbidden
	case router.StatusNotFound:
		return fiber.StatusNotFound
	case router.StatusFailed:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// Invoke 表名和操作在注册时绑定
func (h *Handler) Invoke(table string, op router.Op) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := record.Parse(c.Body())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":     "invalid json",
				"exception": err.Error(),
			})
		}

		resp := h.router.Invoke(requestContext(c), table, op, payload)
		return c.Status(httpStatus(resp.Status)).JSON(resp.Body)
	}
}

func (h *Handler) DatabaseInfo(c *fiber.Ctx) error {
	if !h.database.InfoEnabled() {
		return c.Status(fiber.StatusForbidden).JSON(routeNotAvailable)
	}
	return c.JSON(h.database.Info())
}

func (h *Handler) CreateTables(c *fiber.Ctx) error {
	if !h.database.CreateTablesEnabled() {
		return c.Status(fiber.StatusForbidden).JSON(routeNotAvailable)
	}
	return c.JSON(h.router.CreateTables(requestContext(c)))
}

func (h *Handler) Definitions(c *fiber.Ctx) error {
	if !h.database.DefinitionsEnabled() {
		return c.Status(fiber.StatusForbidden).JSON(routeNotAvailable)
	}

	table := c.Params("table")
	statements, err := h.router.Definitions(table)
	if errors.Is(err, schema.ErrTableNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "table not found", "table": table})
	}
	if err != nil {
		return err
	}

	texts := make([]string, 0, len(statements))
	for _, stmt := range statements {
		texts = append(texts, stmt.Text)
	}
	return c.JSON(fiber.Map{"table": table, "statements": texts})
}
