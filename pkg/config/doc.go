// Package config loads platform configuration from environment variables
// with sane defaults and startup validation.
package config
