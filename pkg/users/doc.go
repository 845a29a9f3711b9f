// Package users provides access to the persistent user, agent and tenant-page
// store through parameterized SQL queries. Each operation is an independently
// committed statement; no cross-request transaction spans the auth flows that
// call into this package.
package users
