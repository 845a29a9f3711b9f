// Package middleware provides the request-routing middleware that runs ahead
// of the API: tenant subdomain resolution and the HTTPS transport policy.
package middleware
