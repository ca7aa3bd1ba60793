// Package env reads raw environment values. Config proper goes through
// envconfig; this covers the few reads that happen before Load runs.
package env

import "os"

// Get returns the named variable, or fallback when unset or blank.
func Get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
