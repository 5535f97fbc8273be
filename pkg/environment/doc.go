// Package environment names the deployment environments the gateway knows
// about and parses them from configuration.
//
// Production is the only environment with hard rules attached: cookies must
// be Secure there, and the logger defaults to JSON at INFO.
package environment
