package domain

// Event represents one immutable occurrence stored in the events table
type Event struct {
	ID            int64   `db:"id" json:"id"`
	AppID         string  `db:"app_id" json:"app_id"`
	EventType     string  `db:"event_type" json:"event_type"`
	EventCategory string  `db:"event_category" json:"event_category"`
	Qualifier     *string `db:"qualifier" json:"qualifier,omitempty"`
	Value         int64   `db:"value" json:"value"`
	Timestamp     int64   `db:"timestamp" json:"timestamp"`
	Country       *string `db:"country" json:"country,omitempty"`
}

// Metric returns the key of the counter this event increments
func (e *Event) Metric() string {
	return BuildMetricKey(e.EventType, e.Qualifier)
}

// Stat represents a cumulative counter stored in the stats table
type Stat struct {
	AppID       string  `db:"app_id" json:"app_id"`
	Metric      string  `db:"metric" json:"metric"`
	Category    *string `db:"category" json:"category,omitempty"`
	Value       int64   `db:"value" json:"value"`
	LastUpdated int64   `db:"last_updated" json:"last_updated"`
}

// CategoryOrDefault returns the stat category, falling back to CategoryGeneral
func (s *Stat) CategoryOrDefault() string {
	if s.Category == nil || *s.Category == "" {
		return CategoryGeneral
	}
	return *s.Category
}
