package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Driver string `long:"driver" description:"Database driver, overrides DATABASE_DRIVER (sqlite3 | postgres)"`
	DSN    string `long:"dsn" description:"Database DSN, overrides DATABASE_DSN"`
	JSON   bool   `long:"json" description:"Output in JSON format"`
}

// MigrateCommand applies pending schema migrations.
type MigrateCommand struct {
	env *environment
}

// AppsCommand lists every app with its event and counter totals.
type AppsCommand struct {
	env *environment
}

// SummaryCommand prints the summary of one app.
type SummaryCommand struct {
	App string `long:"app" description:"Application ID" required:"true"`

	env *environment
}

// TopCommand prints the highest or lowest counters of an app.
type TopCommand struct {
	App      string `long:"app" description:"Application ID" required:"true"`
	Category string `long:"category" description:"Only counters of this category"`
	Limit    int    `long:"limit" description:"Maximum results" default:"10"`
	Sort     string `long:"sort" description:"Sort order: desc | asc" default:"desc"`

	env *environment
}

// SeriesCommand prints the bucketed history of one metric.
type SeriesCommand struct {
	App     string `long:"app" description:"Application ID" required:"true"`
	Metric  string `long:"metric" description:"Metric key, e.g. purchase.gold" required:"true"`
	Period  string `long:"period" description:"Bucket size: hour | day | week | month" default:"day"`
	Country string `long:"country" description:"Only events from this country"`
	Limit   int    `long:"limit" description:"Maximum buckets" default:"30"`

	env *environment
}
