package security

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCSRFToken(t *testing.T) {
	g := NewCSRFGenerator("secret")

	token, err := g.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		token     string
		want      bool
	}{
		{name: "matching token", sessionID: "session-1", token: token, want: true},
		{name: "other session", sessionID: "session-2", token: token, want: false},
		{name: "empty token", sessionID: "session-1", token: "", want: false},
		{name: "empty session", sessionID: "", token: token, want: false},
		{name: "tampered token", sessionID: "session-1", token: "x" + token[1:], want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.ValidateToken(tt.sessionID, tt.token); got != tt.want {
				t.Errorf("ValidateToken() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := g.GenerateToken(""); err == nil {
		t.Error("GenerateToken(\"\") should fail")
	}
	if other, _ := NewCSRFGenerator("different").GenerateToken("session-1"); other == token {
		t.Error("tokens from different secrets should differ")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("fourth request should be refused")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}
}

func TestRateLimiterRefillAndPrune(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	defer rl.Stop()

	if !rl.Allow("ip") || rl.Allow("ip") {
		t.Fatal("bucket of one should allow exactly one request")
	}
	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("ip") {
		t.Error("bucket should refill after the window")
	}

	rl.prune(time.Now().Add(time.Second))
	rl.mu.RLock()
	n := len(rl.visitors)
	rl.mu.RUnlock()
	if n != 0 {
		t.Errorf("prune left %d visitors", n)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, remote: "10.0.0.1:1234", want: "203.0.113.5"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.7"}, remote: "10.0.0.1:1234", want: "198.51.100.7"},
		{name: "remote addr port stripped", remote: "192.0.2.9:5555", want: "192.0.2.9"},
		{name: "remote addr without port", remote: "192.0.2.9", want: "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPasswordAndPIN(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "admin123" {
		t.Error("HashPassword() returned unhashed password")
	}
	if !CheckPassword("admin123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("admin124", hash) {
		t.Error("wrong password accepted")
	}

	if !ComparePIN("1234", "1234") {
		t.Error("matching PIN rejected")
	}
	if ComparePIN("1235", "1234") || ComparePIN("", "") || ComparePIN("12345", "1234") {
		t.Error("mismatched PIN accepted")
	}
}

func TestSessionCookies(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	expires := time.Now().Add(time.Hour)

	c := CreateSessionCookie(r, "chore_session", "abc", expires)
	if !c.HttpOnly || c.Secure || c.Value != "abc" {
		t.Errorf("unexpected plain-http cookie: %+v", c)
	}

	r.TLS = &tls.ConnectionState{}
	if !CreateSessionCookie(r, "chore_session", "abc", expires).Secure {
		t.Error("cookie over TLS should be Secure")
	}

	proxied := httptest.NewRequest("GET", "/", nil)
	proxied.Header.Set("X-Forwarded-Proto", "https")
	if d := CreateDeleteCookie(proxied, "chore_session"); d.MaxAge != -1 || !d.Secure {
		t.Errorf("unexpected delete cookie: %+v", d)
	}

	if GenerateSessionID() == GenerateSessionID() {
		t.Error("session IDs should be unique")
	}
}
