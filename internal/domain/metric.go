package domain

import "strings"

// BuildMetricKey composes the counter name for an event type and optional qualifier
func BuildMetricKey(eventType string, qualifier *string) string {
	if qualifier == nil {
		return eventType
	}
	return eventType + "." + *qualifier
}

// SplitMetricKey reverses BuildMetricKey by splitting on the first dot.
// Qualifiers that themselves contain dots come back intact.
func SplitMetricKey(metric string) (string, *string) {
	eventType, qualifier, found := strings.Cut(metric, ".")
	if !found {
		return metric, nil
	}
	return eventType, &qualifier
}
