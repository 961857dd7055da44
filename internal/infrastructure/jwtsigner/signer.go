package jwtsigner

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"stt-token-server/internal/domain/token"
)

// Claims ローカル署名トークンのクレーム
type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Signer APIキーをHMAC鍵としてトークンをローカル署名する発行元
// 外部の発行APIに接続できない開発環境向け
type Signer struct {
	issuer string
	now    func() time.Time
}

// NewSigner 新しいSignerを作成
func NewSigner(issuer string) *Signer {
	return &Signer{
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue HS256で署名したJWTを発行する
func (s *Signer) Issue(ctx context.Context, params token.IssueParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", token.ErrIssuanceFailed, err)
	}
	if params.APIKey == "" {
		return "", fmt.Errorf("%w: signing key is empty", token.ErrIssuanceFailed)
	}

	now := s.now()
	// 有効期限は秒単位で加算する
	expiresAt := time.Unix(now.Unix()+int64(params.TTL.Seconds()), 0)
	claims := Claims{
		Type: params.Type.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(params.APIKey))
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign token: %w", token.ErrIssuanceFailed, err)
	}
	return signed, nil
}
