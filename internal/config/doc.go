// Package config loads the proxy's tuning knobs from PROXY_* environment
// variables and validates them. The listen port comes from the command line.
package config
