package scheduler

import (
	"fmt"

	"swiftjobs/src/jobs"
)

// Entry is one scheduled trigger: a five-field cron spec evaluated in Location.
type Entry struct {
	Name     string
	Spec     string
	Location string
	Kind     jobs.Kind
}

// CronSpec is the spec with its zone prefix as understood by the cron parser.
func (e Entry) CronSpec() string {
	return fmt.Sprintf("CRON_TZ=%s %s", e.Location, e.Spec)
}

// Entries returns the fixed trigger table. Ingestion covers the exchange session 09:30 to 16:10 on
// weekdays; maintenance runs shortly after midnight.
func Entries(cfg Config) []Entry {
	return []Entry{
		{Name: "ingest-open", Spec: "30-59 9 * * 1-5", Location: cfg.MarketTimezone, Kind: jobs.KindIngest},
		{Name: "ingest-day", Spec: "* 10-15 * * 1-5", Location: cfg.MarketTimezone, Kind: jobs.KindIngest},
		{Name: "ingest-close", Spec: "0-10 16 * * 1-5", Location: cfg.MarketTimezone, Kind: jobs.KindIngest},
		{Name: "season", Spec: "0 0 * * *", Location: cfg.MaintenanceTimezone, Kind: jobs.KindSeason},
		{Name: "compact", Spec: "30 0 * * *", Location: cfg.MaintenanceTimezone, Kind: jobs.KindCompact},
		{Name: "delete", Spec: "35 0 * * *", Location: cfg.MaintenanceTimezone, Kind: jobs.KindDelete},
		{Name: "reindex", Spec: "40 0 * * *", Location: cfg.MaintenanceTimezone, Kind: jobs.KindReindex},
	}
}
