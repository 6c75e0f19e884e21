package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestBuildMetricKey(t *testing.T) {
	assert.Equal(t, "install", BuildMetricKey("install", nil))
	assert.Equal(t, "purchase.premium", BuildMetricKey("purchase", strPtr("premium")))
	assert.Equal(t, "purchase.", BuildMetricKey("purchase", strPtr("")))
}

func TestSplitMetricKey(t *testing.T) {
	eventType, qualifier := SplitMetricKey("install")
	assert.Equal(t, "install", eventType)
	assert.Nil(t, qualifier)

	eventType, qualifier = SplitMetricKey("purchase.premium_upgrade")
	assert.Equal(t, "purchase", eventType)
	require.NotNil(t, qualifier)
	assert.Equal(t, "premium_upgrade", *qualifier)

	eventType, qualifier = SplitMetricKey("level.complete.5")
	assert.Equal(t, "level", eventType)
	require.NotNil(t, qualifier)
	assert.Equal(t, "complete.5", *qualifier)
}

func TestEvent_Metric(t *testing.T) {
	e := &Event{EventType: "purchase", Qualifier: strPtr("gold")}
	assert.Equal(t, "purchase.gold", e.Metric())

	e = &Event{EventType: "install"}
	assert.Equal(t, "install", e.Metric())
}

func TestStat_CategoryOrDefault(t *testing.T) {
	assert.Equal(t, CategoryGeneral, (&Stat{}).CategoryOrDefault())
	assert.Equal(t, CategoryGeneral, (&Stat{Category: strPtr("")}).CategoryOrDefault())
	assert.Equal(t, CategoryRevenue, (&Stat{Category: strPtr(CategoryRevenue)}).CategoryOrDefault())
}
