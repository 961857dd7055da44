package token

import "time"

// GenerateTokenRequest トークン生成リクエスト
type GenerateTokenRequest struct {
	TTL *int // 秒単位、nilの場合は設定のデフォルト値
}

// GenerateTokenResponse トークン生成レスポンス
type GenerateTokenResponse struct {
	Token     string
	ExpiresIn int // 秒単位
	IssuedAt  time.Time
}
