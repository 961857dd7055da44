package token

import "context"

// IssueParams トークン発行パラメータ
type IssueParams struct {
	Type   TokenType
	APIKey string
	TTL    TTL
}

// Issuer 署名済みトークンを発行する外部機能
// 実装はネットワーク越しの発行APIでもローカル署名でもよい
type Issuer interface {
	Issue(ctx context.Context, params IssueParams) (string, error)
}
