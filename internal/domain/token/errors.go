package token

import "errors"

var (
	// ErrInvalidTTL 無効な有効期間エラー
	ErrInvalidTTL = errors.New("invalid ttl")
	// ErrIssuanceFailed トークン発行失敗エラー
	ErrIssuanceFailed = errors.New("token issuance failed")
	// ErrEmptyToken 発行元が空のトークンを返したエラー
	ErrEmptyToken = errors.New("issuer returned empty token")
)
