package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hatlonely/surrealgate/log"
	"github.com/hatlonely/surrealgate/log/logger"
)

const HeaderRequestID = "X-Request-Id"

const localsRequestID = "requestID"

// RequestID 沿用请求头中的 id，没有时生成一个，并写回响应头
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Locals(localsRequestID, id)
		return c.Next()
	}
}

// requestContext 带请求 id 的 context，日志会自动附加
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if id, ok := c.Locals(localsRequestID).(string); ok {
		ctx = logger.WithRequestID(ctx, id)
	}
	return ctx
}

func AccessLog(l log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		l.InfoContext(requestContext(c), "access",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}
