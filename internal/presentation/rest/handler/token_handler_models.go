package handler

// GenerateTokenRequest トークン生成リクエスト
// @Description トークン生成リクエスト
// JSONの数値は60.0や1e3のような整数値も受け付ける
type GenerateTokenRequest struct {
	TTL *float64 `json:"ttl,omitempty" validate:"omitempty,gt=0" example:"3600" swaggertype:"integer"`
}

// GenerateTokenResponse トークン生成レスポンス
// @Description トークン生成レスポンス
type GenerateTokenResponse struct {
	Success   bool   `json:"success" example:"true"`
	Token     string `json:"token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9.e30.signature"`
	ExpiresIn int    `json:"expiresIn" example:"3600"`
	Timestamp int64  `json:"timestamp" example:"1760000000000"`
}
