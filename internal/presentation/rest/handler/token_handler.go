package handler

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	tokenapp "stt-token-server/internal/application/token"
	"stt-token-server/internal/domain/token"

	"github.com/labstack/echo/v4"
)

// TokenHandler トークン発行ハンドラー
type TokenHandler struct {
	tokenService *tokenapp.TokenApplicationService
}

// NewTokenHandler 新しいTokenHandlerを作成
func NewTokenHandler(tokenService *tokenapp.TokenApplicationService) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
	}
}

// GenerateToken トークン生成ハンドラー
// @Summary リアルタイム文字起こし用の一時トークンを発行
// @Description サーバーのAPIキーで短命トークンを発行します
// @Tags token
// @Accept json
// @Produce json
// @Param request body GenerateTokenRequest false "トークン生成リクエスト"
// @Success 200 {object} GenerateTokenResponse "トークン生成成功"
// @Failure 400 {object} middleware.ErrorResponse "不正なリクエスト"
// @Failure 500 {object} middleware.ErrorResponse "トークン生成失敗"
// @Router /api/token [post]
func (h *TokenHandler) GenerateToken(c echo.Context) error {
	var reqBody GenerateTokenRequest

	// JSON以外のボディは無視してデフォルトTTLで発行する
	if isJSONRequest(c.Request()) {
		if err := c.Bind(&reqBody); err != nil {
			return err
		}
	}
	if err := c.Validate(&reqBody); err != nil {
		return fmt.Errorf("%w: ttl must be a positive integer", token.ErrInvalidTTL)
	}

	var ttl *int
	if reqBody.TTL != nil {
		seconds, ok := toSeconds(*reqBody.TTL)
		if !ok {
			return fmt.Errorf("%w: ttl must be a positive integer", token.ErrInvalidTTL)
		}
		ttl = &seconds
	}

	resp, err := h.tokenService.GenerateToken(c.Request().Context(), &tokenapp.GenerateTokenRequest{
		TTL: ttl,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, GenerateTokenResponse{
		Success:   true,
		Token:     resp.Token,
		ExpiresIn: resp.ExpiresIn,
		Timestamp: resp.IssuedAt.UnixMilli(),
	})
}

// isJSONRequest Content-TypeがJSONかどうかを判定
func isJSONRequest(req *http.Request) bool {
	return strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// toSeconds JSONの数値を秒数に変換する
// 小数部を持つ値とtime.Durationで表現できない値は受け付けない
func toSeconds(v float64) (int, bool) {
	if v != math.Trunc(v) || v > float64(token.MaxTTLSeconds) {
		return 0, false
	}
	return int(v), true
}
