package clickhouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
)

func TestArchiveRow(t *testing.T) {
	qualifier := "gold"
	country := "DE"
	ingestedAt := time.Unix(1710504000, 0)

	row := archiveRow("b-1", &domain.Event{
		AppID:         "app1",
		EventType:     "purchase",
		EventCategory: domain.CategoryRevenue,
		Qualifier:     &qualifier,
		Value:         999,
		Timestamp:     1710500000,
		Country:       &country,
	}, ingestedAt)

	require.Len(t, row, 10)
	assert.Equal(t, "b-1", row[0])
	assert.Equal(t, "app1", row[1])
	assert.Equal(t, "purchase", row[2])
	assert.Equal(t, domain.CategoryRevenue, row[3])
	assert.Equal(t, "purchase.gold", row[4])
	assert.Equal(t, &qualifier, row[5])
	assert.Equal(t, int64(999), row[6])
	assert.Equal(t, int64(1710500000), row[7])
	assert.Equal(t, &country, row[8])
	assert.Equal(t, ingestedAt, row[9])
}

func TestArchiveRow_NullableColumns(t *testing.T) {
	row := archiveRow("b-2", &domain.Event{
		AppID:         "app1",
		EventType:     "install",
		EventCategory: domain.CategoryLifecycle,
		Value:         1,
		Timestamp:     1710500000,
	}, time.Unix(1710504000, 0))

	assert.Equal(t, "install", row[4])
	assert.Nil(t, row[5])
	assert.Nil(t, row[8])
}
