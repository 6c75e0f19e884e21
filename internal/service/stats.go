package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/repository"
)

const (
	DefaultTopLimit = 10
	MaxTopLimit     = 100
	MaxPageLimit    = 1000
)

// Stats reads the counter table
type Stats struct {
	store repository.Store
	log   *zap.Logger
}

// NewStats creates a new stats reader
func NewStats(store repository.Store, log *zap.Logger) *Stats {
	return &Stats{
		store: store,
		log:   log,
	}
}

// ListStats returns the counters of an app ordered by metric name
func (s *Stats) ListStats(ctx context.Context, appID string, filter StatsFilter, page Page, format StatsFormat) (*StatsList, error) {
	if format == "" {
		format = FormatSimple
	}
	if format != FormatSimple && format != FormatDetailed {
		return nil, domain.NewValidationError("format", fmt.Sprintf("unsupported format %q (supported: simple, detailed)", format))
	}
	if page.Limit < 0 || page.Offset < 0 {
		return nil, domain.NewValidationError("limit", "limit and offset must not be negative")
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}

	where, args := statsWhere(appID, filter)

	query := "SELECT app_id, metric, category, value, last_updated FROM stats" + where + " ORDER BY metric ASC"
	queryArgs := args
	if page.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		queryArgs = append(append([]interface{}{}, args...), page.Limit, page.Offset)
	}

	var rows []domain.Stat
	if err := s.store.Select(ctx, &rows, query, queryArgs...); err != nil {
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}

	result := &StatsList{Format: format}

	if format == FormatSimple {
		result.Simple = make(map[string]int64, len(rows))
		for _, row := range rows {
			result.Simple[row.Metric] = row.Value
		}
		return result, nil
	}

	result.Detailed = rows
	if result.Detailed == nil {
		result.Detailed = []domain.Stat{}
	}

	if page.Limit > 0 {
		total, err := s.store.Count(ctx, "SELECT COUNT(*) FROM stats"+where, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to count stats: %w", err)
		}
		result.Pagination = &Pagination{
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		}
	}

	return result, nil
}

// GroupByCategory sums counter values per category. Counters without a
// category are reported under "general".
func (s *Stats) GroupByCategory(ctx context.Context, appID string) (map[string]int64, error) {
	var rows []struct {
		Category string `db:"category"`
		Value    int64  `db:"value"`
	}

	query := `SELECT COALESCE(NULLIF(category, ''), 'general') AS category, CAST(SUM(value) AS BIGINT) AS value
		FROM stats
		WHERE app_id = ?
		GROUP BY COALESCE(NULLIF(category, ''), 'general')`

	if err := s.store.Select(ctx, &rows, query, appID); err != nil {
		return nil, fmt.Errorf("failed to group stats by category: %w", err)
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Category] += row.Value
	}
	return result, nil
}

// TopMetrics returns counters sorted by value
func (s *Stats) TopMetrics(ctx context.Context, appID string, query TopQuery) ([]domain.Stat, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}

	direction := "DESC"
	switch strings.ToLower(query.Sort) {
	case "", "desc":
	case "asc":
		direction = "ASC"
	default:
		return nil, domain.NewValidationError("sort", fmt.Sprintf("unsupported sort %q (supported: asc, desc)", query.Sort))
	}

	where, args := statsWhere(appID, StatsFilter{Category: query.Category})
	sqlQuery := "SELECT app_id, metric, category, value, last_updated FROM stats" + where +
		" ORDER BY value " + direction + " LIMIT ?"
	args = append(args, limit)

	var rows []domain.Stat
	if err := s.store.Select(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to get top metrics: %w", err)
	}
	if rows == nil {
		rows = []domain.Stat{}
	}
	return rows, nil
}

func statsWhere(appID string, filter StatsFilter) (string, []interface{}) {
	clauses := []string{"app_id = ?"}
	args := []interface{}{appID}

	if filter.Prefix != "" {
		// LIKE is case-insensitive on SQLite; compare the literal prefix instead
		clauses = append(clauses, "SUBSTR(metric, 1, ?) = ?")
		args = append(args, utf8.RuneCountInString(filter.Prefix), filter.Prefix)
	}
	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
