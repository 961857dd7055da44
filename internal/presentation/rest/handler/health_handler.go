package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler ヘルスチェックハンドラー
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler 新しいHealthHandlerを作成
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Check ヘルスチェック
// @Summary ヘルスチェック
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UnixMilli(),
	})
}
