// Package risk classifies network calls into sensitivity tiers that drive
// approval gating.
package risk

import (
	"regexp"
	"strings"
)

// Tier is the sensitivity classification of a network call.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// highRiskKeywords mark destructive or financially sensitive endpoints.
var highRiskKeywords = []string{
	"checkout",
	"payment",
	"order",
	"purchase",
	"billing",
	"subscription",
}

// mediumRiskPaths mark authentication surfaces.
var mediumRiskPaths = []string{
	"/auth/",
	"/login",
	"/logout",
	"/register",
}

// accountDeletionPattern matches account-removal endpoints such as
// /account/delete, /users/123/delete, or /delete-account.
var accountDeletionPattern = regexp.MustCompile(`(?i)(account.{0,12}delete|delete.{0,12}account|/users?/[^/]+/delete)`)

// Classify maps a method and URL to a risk tier. It is a total,
// deterministic function; rules are checked in priority order and the
// first match wins.
func Classify(method, url string) Tier {
	method = strings.ToUpper(method)
	lowered := strings.ToLower(url)

	if method == "DELETE" {
		return TierHigh
	}
	for _, kw := range highRiskKeywords {
		if strings.Contains(lowered, kw) {
			return TierHigh
		}
	}
	if accountDeletionPattern.MatchString(lowered) {
		return TierHigh
	}
	if method == "PUT" || method == "PATCH" {
		return TierMedium
	}
	for _, p := range mediumRiskPaths {
		if strings.Contains(lowered, p) {
			return TierMedium
		}
	}
	return TierLow
}
