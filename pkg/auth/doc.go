// Package auth provides session token signing and verification for the
// TikeZone platform.
//
// # Overview
//
// This package implements the session token codec and the cookie directives
// that carry tokens between the browser and the platform. Tokens are compact
// HS256-signed JWTs encoding a principal's identity and role. Two cookie
// namespaces exist: auth_token for user/organizer/customer sessions and
// scan_token for scan agents. Both namespaces use the same codec; they differ
// only in which cookie slot the token occupies, so a browser can hold a valid
// customer session and a valid agent session at the same time.
//
// # Token Codec
//
//	codec, err := auth.NewCodec(signingKey, 7*24*time.Hour)
//	token, err := codec.Sign("user-id", "alice@example.com", auth.RoleCustomer)
//	claims, ok := codec.Verify(token)
//
// Verify never returns an error for untrusted input: malformed, forged and
// expired tokens all yield (nil, false). Rotating the signing key invalidates
// every outstanding token; there is no automatic migration.
//
// # Cookies
//
// Cookie builders are pure functions returning *http.Cookie directives that
// the transport layer applies with http.SetCookie. The cookie lifetime always
// matches the token's own expiry, so an expired-but-present cookie is inert.
package auth
