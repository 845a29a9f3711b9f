package auth

import (
	"net/http"
	"time"
)

const (
	// AuthCookieName carries user/organizer/customer session tokens
	AuthCookieName = "auth_token"
	// ScanCookieName carries scan agent session tokens
	ScanCookieName = "scan_token"
)

// AuthCookie builds the session cookie directive for a signed token.
// The cookie lifetime matches the token's own expiry.
func AuthCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return sessionCookie(AuthCookieName, token, ttl, secure)
}

// ScanCookie builds the scan agent cookie directive for a signed token
func ScanCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return sessionCookie(ScanCookieName, token, ttl, secure)
}

// ClearAuthCookie builds a directive that expires the auth cookie immediately
func ClearAuthCookie() *http.Cookie {
	return clearCookie(AuthCookieName)
}

// ClearScanCookie builds a directive that expires the scan cookie immediately
func ClearScanCookie() *http.Cookie {
	return clearCookie(ScanCookieName)
}

func sessionCookie(name, token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
	}
}

func clearCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	}
}
