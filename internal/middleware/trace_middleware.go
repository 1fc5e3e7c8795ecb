package middleware

import (
	"strconv"
	"time"

	"adFatigue/business/fatigue"
	"adFatigue/pkg/logger"
	"adFatigue/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// TraceMiddleware reuses the caller's X-Request-ID or issues a new one, stores
// it on the request context and echoes it back.
func TraceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(HeaderRequestID)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			c.SetRequest(req.WithContext(fatigue.WithTraceID(req.Context(), traceID)))
			c.Response().Header().Set(HeaderRequestID, traceID)
			c.Set("trace_id", traceID)

			return next(c)
		}
	}
}

// RequestMetrics records latency and status per route and logs every request.
func RequestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := c.Response().Status
			elapsed := time.Since(start)

			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()

			logger.Debug("http_request",
				"trace_id", fatigue.TraceIDFromContext(c.Request().Context()),
				"method", method,
				"route", route,
				"status", status,
				"latency_ms", elapsed.Milliseconds(),
			)

			return nil
		}
	}
}
