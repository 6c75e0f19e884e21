package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/repository/sqlstore"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

func strPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

// setupDatabase creates an on-disk SQLite database seeded with two apps and
// returns its DSN. Timestamps default to now so every event is in range.
func setupDatabase(t *testing.T) string {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "stats.db")

	store, err := sqlstore.Open(context.Background(), config.Database{
		Driver: sqlstore.DriverSQLite,
		DSN:    dsn,
	}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	recorder := service.NewRecorder(store, zap.NewNop())
	_, err = recorder.RecordBatch(context.Background(), "game", []service.EventInput{
		{EventType: "purchase", Qualifier: strPtr("gold"), Value: int64Ptr(1500)},
		{EventType: "purchase", Qualifier: strPtr("gold"), Value: int64Ptr(1500)},
		{EventType: "purchase", Qualifier: strPtr("silver"), Value: int64Ptr(250)},
		{EventType: "level_complete"},
	})
	require.NoError(t, err)

	_, err = recorder.Record(context.Background(), "notes", service.EventInput{EventType: "install"})
	require.NoError(t, err)

	return dsn
}

// runCommand executes statsctl against dsn and returns stdout
func runCommand(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	fullArgs := append([]string{"--driver", sqlstore.DriverSQLite, "--dsn", dsn}, args...)
	err := RunWithArgs(fullArgs, &out, zap.NewNop())
	return out.String(), err
}

func TestBuildParser_RegistersCommands(t *testing.T) {
	env := &environment{globals: &GlobalFlags{}, out: &bytes.Buffer{}, log: zap.NewNop()}
	parser, cmds := buildParser(env)

	for _, name := range []string{"migrate", "apps", "summary", "top", "series"} {
		assert.NotNil(t, parser.Find(name), "command %s should be registered", name)
	}
	assert.Same(t, env, cmds.Top.env)
}

func TestMigrate(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "fresh.db")

	output, err := runCommand(t, dsn, "migrate")

	require.NoError(t, err)
	assert.Contains(t, output, "Schema is at version 1")
}

func TestMigrate_JSON(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "fresh.db")

	output, err := runCommand(t, dsn, "--json", "migrate")
	require.NoError(t, err)

	var result map[string]int
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, 1, result["schema_version"])
}

func TestApps(t *testing.T) {
	dsn := setupDatabase(t)

	output, err := runCommand(t, dsn, "apps")

	require.NoError(t, err)
	assert.Contains(t, output, "APP")
	assert.Contains(t, output, "game")
	assert.Contains(t, output, "notes")
	assert.NotContains(t, output, "never")
}

func TestApps_Empty(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "empty.db")

	output, err := runCommand(t, dsn, "apps")

	require.NoError(t, err)
	assert.Contains(t, output, "No applications recorded yet.")
}

func TestSummary(t *testing.T) {
	dsn := setupDatabase(t)

	output, err := runCommand(t, dsn, "summary", "--app", "game")

	require.NoError(t, err)
	assert.Contains(t, output, "App:         game")
	assert.Contains(t, output, "Events:      4")
	assert.Contains(t, output, "Counters:    3")
	assert.Contains(t, output, "revenue")
	assert.Contains(t, output, "3,250")
}

func TestSummary_JSON(t *testing.T) {
	dsn := setupDatabase(t)

	output, err := runCommand(t, dsn, "--json", "summary", "--app", "game")
	require.NoError(t, err)

	var summary service.AppSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, "game", summary.AppID)
	assert.Equal(t, int64(4), summary.EventCount)
	assert.Equal(t, int64(3250), summary.Categories["revenue"])
	assert.Equal(t, int64(1), summary.Categories["general"])
}

func TestSummary_RequiresApp(t *testing.T) {
	dsn := setupDatabase(t)

	_, err := runCommand(t, dsn, "summary")

	assert.Error(t, err)
}

func TestTop(t *testing.T) {
	dsn := setupDatabase(t)

	output, err := runCommand(t, dsn, "top", "--app", "game", "--limit", "2")

	require.NoError(t, err)
	assert.Contains(t, output, "1. purchase.gold")
	assert.Contains(t, output, "3,000")
	assert.Contains(t, output, "2. purchase.silver")
	assert.NotContains(t, output, "level_complete")
}

func TestTop_InvalidSort(t *testing.T) {
	dsn := setupDatabase(t)

	_, err := runCommand(t, dsn, "top", "--app", "game", "--sort", "sideways")

	assert.Error(t, err)
}

func TestSeries(t *testing.T) {
	dsn := setupDatabase(t)

	output, err := runCommand(t, dsn, "series", "--app", "game", "--metric", "purchase.gold")

	require.NoError(t, err)
	assert.Contains(t, output, "purchase.gold by day")
	assert.Contains(t, output, "3,000")
}

func TestSeries_NoEvents(t *testing.T) {
	dsn := setupDatabase(t)

	output, err := runCommand(t, dsn, "series", "--app", "game", "--metric", "crash")

	require.NoError(t, err)
	assert.Contains(t, output, "No crash events for game in range.")
}

func TestSeries_JSON(t *testing.T) {
	dsn := setupDatabase(t)

	output, err := runCommand(t, dsn, "--json", "series", "--app", "game", "--metric", "purchase.silver", "--period", "hour")
	require.NoError(t, err)

	var series service.Series
	require.NoError(t, json.Unmarshal([]byte(output), &series))
	assert.Equal(t, "purchase.silver", series.Metric)
	require.Len(t, series.Points, 1)
	assert.Equal(t, int64(250), series.Points[0].Value)
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := RunWithArgs([]string{"explode"}, &out, zap.NewNop())

	assert.Error(t, err)
}
