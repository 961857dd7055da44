package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"stt-token-server/internal/domain/token"
	otelinfra "stt-token-server/internal/infrastructure/observability/otel"
)

// MessageTokenIssuanceFailed 発行失敗時にクライアントへ返す固定メッセージ
const MessageTokenIssuanceFailed = "Failed to generate authentication token"

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			return handleError(c, err, logger)
		}
	}
}

// HTTPErrorHandler ミドルウェアチェーンの外側で発生したエラーを処理する
func HTTPErrorHandler(logger *otelinfra.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if herr := handleError(c, err, logger); herr != nil {
			logger.Error(c.Request().Context(), "Failed to write error response", herr, nil)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()
	now := time.Now().UnixMilli()

	if errors.Is(err, token.ErrInvalidTTL) {
		logger.Warn(ctx, "Invalid ttl", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			Code:      "invalid_ttl",
			Timestamp: now,
		})
	}

	// 発行失敗の詳細はサービス層でログ済み。クライアントには固定メッセージのみ返す
	if errors.Is(err, token.ErrIssuanceFailed) {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     MessageTokenIssuanceFailed,
			Timestamp: now,
		})
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		fields := map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		}
		if httpErr.Internal != nil {
			fields["internal"] = httpErr.Internal.Error()
		}
		logger.Warn(ctx, "HTTP error", fields)

		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:     message,
			Timestamp: now,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     http.StatusText(http.StatusInternalServerError),
		Timestamp: now,
	})
}
