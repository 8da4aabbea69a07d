package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestRateLimiter(t *testing.T, config RateLimiterConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(config)
	t.Cleanup(rl.Stop)
	return rl
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGeneralMiddleware_AllowsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    3,
		AuthRate:        rate.Limit(1),
		AuthBurst:       1,
		CleanupInterval: time.Minute,
	})
	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}
}

func TestGeneralMiddleware_RejectsBeyondBurst(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // 補充がほぼ発生しないレート
		GeneralBurst:    2,
		AuthRate:        rate.Limit(1),
		AuthBurst:       1,
		CleanupInterval: time.Minute,
	})
	handler := rl.GeneralMiddleware()(okHandler())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	send()
	send()
	w := send()

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
}

func TestGeneralMiddleware_PerUserIsolation(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001),
		GeneralBurst:    1,
		AuthRate:        rate.Limit(1),
		AuthBurst:       1,
		CleanupInterval: time.Minute,
	})
	handler := rl.GeneralMiddleware()(okHandler())

	send := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), userID))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// user-1のバーストを使い切る
	send("user-1")
	if w := send("user-1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("user-1 second request: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// user-2は影響を受けない
	if w := send("user-2"); w.Code != http.StatusOK {
		t.Fatalf("user-2: status = %d, want %d", w.Code, http.StatusOK)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", got)
	}
}

func TestGeneralMiddleware_MissingUserContext(t *testing.T) {
	rl := newTestRateLimiter(t, DefaultRateLimiterConfig())
	handler := rl.GeneralMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_RateLimit_PerIPIsolation(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    1,
		AuthRate:        rate.Limit(0.001),
		AuthBurst:       1,
		CleanupInterval: time.Minute,
	})
	handler := rl.AuthMiddleware()(okHandler())

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	send("10.0.0.1:50000")
	if w := send("10.0.0.1:50001"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("same IP second request: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// ポートが違っても同一IPとして扱われ、別IPは独立
	if w := send("10.0.0.2:50000"); w.Code != http.StatusOK {
		t.Fatalf("different IP: status = %d, want %d", w.Code, http.StatusOK)
	}

	if got := rl.AuthLimiterCount(); got != 2 {
		t.Errorf("AuthLimiterCount() = %d, want 2", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{name: "ホストとポート", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "ポートなし", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
		{name: "IPv6", remoteAddr: "[::1]:8080", want: "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLimiterGroup_Cleanup(t *testing.T) {
	g := newLimiterGroup(rate.Limit(1), 1)
	g.getOrCreate("stale")

	// 全エントリを期限切れにする
	g.mu.Lock()
	for _, kl := range g.limiters {
		kl.lastAccess = time.Now().Add(-time.Hour)
	}
	g.mu.Unlock()

	g.getOrCreate("fresh")
	g.cleanup(30 * time.Minute)

	if got := g.count(); got != 1 {
		t.Errorf("count() = %d, want 1", got)
	}
}
