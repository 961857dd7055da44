package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "stt-token-server/internal/infrastructure/observability/otel"
)

// LoggingMiddleware ログミドルウェア
func LoggingMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// 次のハンドラーを実行
			err := next(c)

			// レスポンス情報をログに記録
			req := c.Request()
			res := c.Response()
			fields := map[string]interface{}{
				"method":      req.Method,
				"path":        req.URL.Path,
				"status_code": res.Status,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": c.RealIP(),
			}
			// RequestIDミドルウェアが付与したIDで相関を取る
			if id := res.Header().Get(echo.HeaderXRequestID); id != "" {
				fields["request_id"] = id
			}

			// ステータスに応じてログレベルを切り替える
			switch {
			case err != nil:
				logger.Error(req.Context(), "HTTP request failed", err, fields)
			case res.Status >= 500:
				logger.Warn(req.Context(), "HTTP request completed with server error", fields)
			default:
				logger.Info(req.Context(), "HTTP request completed", fields)
			}

			return err
		}
	}
}
