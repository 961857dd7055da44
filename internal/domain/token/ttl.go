package token

import (
	"fmt"
	"math"
	"time"
)

// MaxTTLSeconds time.Durationで表現できる最大の秒数
const MaxTTLSeconds int64 = math.MaxInt64 / int64(time.Second)

// TTL トークンの有効期間（秒）を表す値オブジェクト
type TTL struct {
	seconds int
}

// NewTTL 新しいTTLを作成
// maxSecondsが0の場合は上限を設けない
func NewTTL(seconds, maxSeconds int) (TTL, error) {
	if seconds <= 0 {
		return TTL{}, fmt.Errorf("%w: ttl must be positive, got %d", ErrInvalidTTL, seconds)
	}
	if int64(seconds) > MaxTTLSeconds {
		return TTL{}, fmt.Errorf("%w: ttl must not exceed %d, got %d", ErrInvalidTTL, MaxTTLSeconds, seconds)
	}
	if maxSeconds > 0 && seconds > maxSeconds {
		return TTL{}, fmt.Errorf("%w: ttl must not exceed %d, got %d", ErrInvalidTTL, maxSeconds, seconds)
	}
	return TTL{seconds: seconds}, nil
}

// Seconds 秒数を返す
func (t TTL) Seconds() int {
	return t.seconds
}

// Duration time.Durationとして返す
func (t TTL) Duration() time.Duration {
	return time.Duration(t.seconds) * time.Second
}
