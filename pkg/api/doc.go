// Package api implements the TikeZone HTTP endpoints: passwordless login via
// one-time codes, session logout, role upgrade, the scan agent identity check
// and the internal tenant subdomain lookup.
//
// # Endpoints
//
//	POST /api/auth/send-otp              issue a login code for an email
//	POST /api/auth/verify-otp            exchange email+code for a session
//	POST /api/auth/logout                clear the auth session cookie
//	POST /api/auth/upgrade-to-organizer  re-sign the session with the organizer role
//	POST /api/scan/logout                clear the scan session cookie
//	GET  /api/scan/me                    current scan agent profile with liveness
//	GET  /api/subdomain-lookup           tenant subdomain to slug (internal)
//	GET  /healthz                        liveness probe
//
// Authentication failures always return a role-appropriate null/unauthorized
// shape; clients cannot distinguish a wrong code from an absent one, and the
// scan identity check never reveals why verification failed.
package api
