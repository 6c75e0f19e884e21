package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/BarkinBalci/app-stats-service/internal/repository/sqlstore"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

// Execute implements the go-flags Commander interface for MigrateCommand.
func (c *MigrateCommand) Execute(args []string) error {
	ctx := context.Background()

	store, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	version, err := sqlstore.NewMigrationRunner(store.DB()).Version(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if c.env.globals.JSON {
		return writeJSON(c.env.out, map[string]int{"schema_version": version})
	}
	fmt.Fprintf(c.env.out, "Schema is at version %d\n", version)
	return nil
}

// Execute implements the go-flags Commander interface for AppsCommand.
func (c *AppsCommand) Execute(args []string) error {
	ctx := context.Background()

	store, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	apps := service.NewApps(store, service.NewStats(store, c.env.log), nil, c.env.log)
	summaries, err := apps.ListAppSummaries(ctx)
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return writeJSON(c.env.out, summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(c.env.out, "No applications recorded yet.")
		return nil
	}

	fmt.Fprintf(c.env.out, "%-24s %12s %10s  %s\n", "APP", "EVENTS", "COUNTERS", "LAST EVENT")
	for _, summary := range summaries {
		fmt.Fprintf(c.env.out, "%-24s %12s %10s  %s\n",
			summary.AppID,
			humanize.Comma(summary.EventCount),
			humanize.Comma(summary.StatCount),
			lastSeen(summary.LastEventAt))
	}
	return nil
}

// Execute implements the go-flags Commander interface for SummaryCommand.
func (c *SummaryCommand) Execute(args []string) error {
	ctx := context.Background()

	store, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	apps := service.NewApps(store, service.NewStats(store, c.env.log), nil, c.env.log)
	summary, err := apps.Summary(ctx, c.App)
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return writeJSON(c.env.out, summary)
	}

	fmt.Fprintf(c.env.out, "App:         %s\n", summary.AppID)
	fmt.Fprintf(c.env.out, "Events:      %s\n", humanize.Comma(summary.EventCount))
	fmt.Fprintf(c.env.out, "Counters:    %s\n", humanize.Comma(summary.StatCount))
	fmt.Fprintf(c.env.out, "Last event:  %s\n", lastSeen(summary.LastEventAt))

	if len(summary.Categories) > 0 {
		fmt.Fprintln(c.env.out)
		fmt.Fprintln(c.env.out, "Categories:")
		writeCategories(c.env.out, summary.Categories)
	}
	return nil
}

// Execute implements the go-flags Commander interface for TopCommand.
func (c *TopCommand) Execute(args []string) error {
	ctx := context.Background()

	store, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	stats := service.NewStats(store, c.env.log)
	top, err := stats.TopMetrics(ctx, c.App, service.TopQuery{
		Category: c.Category,
		Limit:    c.Limit,
		Sort:     c.Sort,
	})
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return writeJSON(c.env.out, top)
	}

	if len(top) == 0 {
		fmt.Fprintf(c.env.out, "No counters for %s.\n", c.App)
		return nil
	}

	for i, stat := range top {
		fmt.Fprintf(c.env.out, "%3d. %-32s %-12s %12s\n",
			i+1, stat.Metric, stat.CategoryOrDefault(), humanize.Comma(stat.Value))
	}
	return nil
}

// Execute implements the go-flags Commander interface for SeriesCommand.
func (c *SeriesCommand) Execute(args []string) error {
	ctx := context.Background()

	store, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	timeseries := service.NewTimeseries(store, c.env.log)
	series, err := timeseries.Query(ctx, service.SeriesQuery{
		AppID:   c.App,
		Metrics: []string{c.Metric},
		Period:  c.Period,
		Country: c.Country,
		Limit:   c.Limit,
	})
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return writeJSON(c.env.out, series)
	}

	if len(series.Points) == 0 {
		fmt.Fprintf(c.env.out, "No %s events for %s in range.\n", c.Metric, c.App)
		return nil
	}

	fmt.Fprintf(c.env.out, "%s by %s\n", series.Metric, series.Period)
	for _, point := range series.Points {
		fmt.Fprintf(c.env.out, "  %-16s %12s\n", point.Bucket, humanize.Comma(point.Value))
	}
	return nil
}
