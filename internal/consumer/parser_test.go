package consumer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBatchParser_Parse(t *testing.T) {
	parser := NewJSONBatchParser()

	batch, err := parser.Parse([]byte(`{
		"batch_id": "b-1",
		"app_id": "app1",
		"events": [
			{"event_type": "purchase", "qualifier": "gold", "value": 999, "timestamp": 1710504000},
			{"event_type": "page_view", "country": "DE"}
		]
	}`))

	require.NoError(t, err)
	assert.Equal(t, "b-1", batch.BatchID)
	assert.Equal(t, "app1", batch.AppID)
	require.Len(t, batch.Events, 2)
	assert.Equal(t, "purchase", batch.Events[0].EventType)
	assert.Equal(t, "gold", *batch.Events[0].Qualifier)
	assert.Equal(t, int64(999), *batch.Events[0].Value)
	assert.Equal(t, int64(1710504000), *batch.Events[0].Timestamp)
	assert.Nil(t, batch.Events[1].Value)
	assert.Equal(t, "DE", *batch.Events[1].Country)
}

func TestJSONBatchParser_Parse_AssignsBatchID(t *testing.T) {
	parser := NewJSONBatchParser()

	batch, err := parser.Parse([]byte(`{"app_id":"app1","events":[{"event_type":"install"}]}`))

	require.NoError(t, err)
	assert.NotEmpty(t, batch.BatchID)
}

func TestJSONBatchParser_Parse_Rejects(t *testing.T) {
	tooMany := make([]string, 101)
	for i := range tooMany {
		tooMany[i] = `{"event_type":"tap"}`
	}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid}`},
		{"missing app_id", `{"events":[{"event_type":"tap"}]}`},
		{"no events", `{"app_id":"app1","events":[]}`},
		{"over capacity", fmt.Sprintf(`{"app_id":"app1","events":[%s]}`, strings.Join(tooMany, ","))},
	}

	parser := NewJSONBatchParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := parser.Parse([]byte(tt.body))
			assert.Error(t, err)
			assert.Nil(t, batch)
		})
	}
}
