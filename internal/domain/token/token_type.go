package token

import (
	"fmt"
)

// TokenType 発行するトークンの種別を表す値オブジェクト
type TokenType string

const (
	TokenTypeRealtime TokenType = "rt"    // リアルタイム文字起こし
	TokenTypeBatch    TokenType = "batch" // バッチ文字起こし
)

// NewTokenType 新しいTokenTypeを作成
func NewTokenType(s string) (TokenType, error) {
	tt := TokenType(s)
	if !tt.Valid() {
		return "", fmt.Errorf("invalid token type: %s", s)
	}
	return tt, nil
}

// String 文字列表現を返す
func (tt TokenType) String() string {
	return string(tt)
}

// Valid 有効なトークン種別かどうかを返す
func (tt TokenType) Valid() bool {
	return tt == TokenTypeRealtime || tt == TokenTypeBatch
}
