package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"patrio-api/internal/logger"
	"patrio-api/internal/metrics"
)

// 文档注释：令牌桶限流（每秒）
// 背景：分析接口会调用远程视觉与地理服务，峰值时在入口限速，避免外部配额被耗尽。
// 约束：不做排队，超出即返回 429；每个自然秒重置令牌。
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() time.Time
	mu       sync.Mutex
}

func NewTokenBucket(qps int) *TokenBucket {
	if qps <= 0 {
		qps = 200
	}
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix(), now: time.Now}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit 包装 handler；tb 为 nil 时不限流
func RateLimit(tb *TokenBucket, next http.Handler) http.Handler {
	if tb == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.Allow() {
			metrics.RateLimitedTotal.Inc()
			logger.L().Debug("rate_limited", "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Muitas requisições, tente novamente em instantes"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Wrap：不可信来源剥离转发头 + 边缘地理头注入 + 可选限流
func Wrap(next http.Handler, rateLimit bool, qps int, proxies TrustedProxies) http.Handler {
	h := StripUntrusted(proxies, EdgeGeo(next))
	if rateLimit {
		return RateLimit(NewTokenBucket(qps), h)
	}
	return h
}
