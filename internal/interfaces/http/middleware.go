package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/observability"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// HeaderIdempotencyKey referencia de operación que el cliente puede enviar en mutaciones.
const HeaderIdempotencyKey = "Idempotency-Key"

// RequestLogger registra método, ruta, status y latencia de cada petición y alimenta las métricas HTTP.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el status.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		metrics.ObserveRequest(c.Method(), c.Route().Path, status, elapsed)
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", requestID(c)).
			Msg("petición HTTP")
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// opContext contexto de la petición con la clave de idempotencia, si vino.
func opContext(c *fiber.Ctx) context.Context {
	return inventory.WithIdempotencyKey(c.UserContext(), strings.TrimSpace(c.Get(HeaderIdempotencyKey)))
}
