package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeadersMiddleware セキュリティヘッダーを設定するミドルウェア
func SecurityHeadersMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			// MIMEタイプのスニッフィングを防止
			h.Set("X-Content-Type-Options", "nosniff")
			// クリックジャッキング対策
			h.Set("X-Frame-Options", "DENY")
			// リファラー情報を送信しない
			h.Set("Referrer-Policy", "no-referrer")
			// 発行したトークンをキャッシュさせない
			h.Set("Cache-Control", "no-store")

			if isDocsPath(c.Request().URL.Path) {
				// Swagger UI用: unpkg.comとcdn.jsdelivr.netを許可
				h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data: https:;")
			} else {
				h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}

			// HTTPS接続時のみHSTSを設定
			if c.Scheme() == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			// 次のハンドラーを実行
			return next(c)
		}
	}
}

// isDocsPath APIドキュメント関連のパスかどうかを判定
func isDocsPath(path string) bool {
	return path == "/openapi.yaml" || strings.HasPrefix(path, "/swagger")
}
