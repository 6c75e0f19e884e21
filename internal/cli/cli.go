package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/repository/sqlstore"
)

// environment is shared by every subcommand.
type environment struct {
	globals *GlobalFlags
	out     io.Writer
	log     *zap.Logger
}

// store opens the database selected by config and the global flags. Opening
// applies pending migrations.
func (e *environment) store(ctx context.Context) (*sqlstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	dbConfig := cfg.Database
	if e.globals.Driver != "" {
		dbConfig.Driver = e.globals.Driver
	}
	if e.globals.DSN != "" {
		dbConfig.DSN = e.globals.DSN
	}

	return sqlstore.Open(ctx, dbConfig, e.log)
}

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Migrate *MigrateCommand
	Apps    *AppsCommand
	Summary *SummaryCommand
	Top     *TopCommand
	Series  *SeriesCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(env *environment) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(env.globals, goflags.Default)
	parser.Name = "statsctl"
	parser.LongDescription = "Administer and inspect the app stats database."

	cmds := &commands{
		Migrate: &MigrateCommand{env: env},
		Apps:    &AppsCommand{env: env},
		Summary: &SummaryCommand{env: env},
		Top:     &TopCommand{env: env},
		Series:  &SeriesCommand{env: env},
	}

	parser.AddCommand("migrate", "Apply schema migrations", "Apply pending schema migrations and print the schema version.", cmds.Migrate)
	parser.AddCommand("apps", "List applications", "List every application with its event and counter totals.", cmds.Apps)
	parser.AddCommand("summary", "Summarize one application", "Print event totals, last activity and category totals of an application.", cmds.Summary)
	parser.AddCommand("top", "Show top counters", "Show the highest (or lowest) counters of an application.", cmds.Top)
	parser.AddCommand("series", "Show a metric timeseries", "Show the bucketed history of one metric of an application.", cmds.Series)

	return parser, cmds
}

// Run parses os.Args and executes the matched subcommand.
func Run(log *zap.Logger) error {
	return RunWithArgs(os.Args[1:], os.Stdout, log)
}

// RunWithArgs parses args and executes the matched subcommand, writing to out.
func RunWithArgs(args []string, out io.Writer, log *zap.Logger) error {
	env := &environment{
		globals: &GlobalFlags{},
		out:     out,
		log:     log,
	}
	return run(env, args)
}

func run(env *environment, args []string) error {
	parser, _ := buildParser(env)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return fmt.Errorf("statsctl: %w", err)
	}
	return nil
}
