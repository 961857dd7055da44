package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "stt-token-server/internal/infrastructure/observability/otel"
)

// MetricsMiddleware メトリクス記録ミドルウェア
func MetricsMiddleware(metrics *otelinfra.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			ctx := c.Request().Context()

			// 次のハンドラーを実行
			err := next(c)

			// リクエスト数とレスポンス時間を記録
			// 未定義パスでカーディナリティが増えないようルートパターンを使う
			path := c.Path()
			metrics.RecordRequest(ctx, c.Request().Method, path)
			metrics.RecordResponseTime(ctx, c.Request().Method, path, time.Since(start).Seconds())

			// エラーハンドラーより内側で返されたエラーは500として数える
			statusCode := c.Response().Status
			if err != nil && statusCode < 400 {
				statusCode = 500
			}
			// エラー種別ごとに記録
			if statusCode >= 400 {
				errorType := "client_error"
				if statusCode >= 500 {
					errorType = "server_error"
				}
				metrics.RecordError(ctx, errorType)
			}

			return err
		}
	}
}
