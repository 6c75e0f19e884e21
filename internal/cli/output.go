package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// lastSeen renders a unix timestamp relative to now, or "never" for zero
func lastSeen(ts int64) string {
	if ts == 0 {
		return "never"
	}
	return humanize.Time(time.Unix(ts, 0))
}

// writeCategories prints category totals by name
func writeCategories(out io.Writer, categories map[string]int64) {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "  %-14s %s\n", name, humanize.Comma(categories[name]))
	}
}
