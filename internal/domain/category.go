package domain

import "strings"

const (
	CategoryRevenue     = "revenue"
	CategoryLifecycle   = "lifecycle"
	CategoryEngagement  = "engagement"
	CategoryInteraction = "interaction"
	CategoryError       = "error"
	CategoryUser        = "user"
	CategoryGeneral     = "general"
)

type categoryRule struct {
	category string
	match    func(eventType string) bool
}

// Order matters: the first matching rule wins.
var categoryRules = []categoryRule{
	{CategoryRevenue, func(s string) bool {
		return strings.HasPrefix(s, "purchase") || containsAny(s, "payment", "subscription")
	}},
	{CategoryLifecycle, func(s string) bool {
		return s == "install" || s == "uninstall" || strings.Contains(s, "update")
	}},
	{CategoryEngagement, func(s string) bool { return containsAny(s, "view", "screen", "page") }},
	{CategoryInteraction, func(s string) bool { return containsAny(s, "click", "tap", "swipe") }},
	{CategoryError, func(s string) bool { return containsAny(s, "error", "crash", "exception") }},
	{CategoryUser, func(s string) bool { return containsAny(s, "user", "account", "login") }},
}

// Categorize maps an event type to a semantic category. Matching is
// case-sensitive and runs against the raw event type.
func Categorize(eventType string) string {
	for _, rule := range categoryRules {
		if rule.match(eventType) {
			return rule.category
		}
	}
	return CategoryGeneral
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
