// Package env reads the platform variables that sit outside the SHADOW_ config.
package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when it is blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// ListenAddr prefers the platform-assigned PORT over the configured one.
func ListenAddr(configuredPort string) string {
	port := strings.TrimPrefix(Get("PORT", configuredPort), ":")
	return ":" + port
}

// InstanceID names the running process for logs.
func InstanceID() string {
	return Get("DYNO", Get("HOSTNAME", "local"))
}
