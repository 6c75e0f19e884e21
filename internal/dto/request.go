package dto

// RecordEventRequest represents a single event submission
type RecordEventRequest struct {
	EventType string  `json:"event_type" binding:"required" example:"purchase"`
	Qualifier *string `json:"qualifier" example:"premium_upgrade"`
	Value     *int64  `json:"value" example:"999"`
	Category  *string `json:"category" example:"revenue"`
	Timestamp *int64  `json:"timestamp" example:"1710504000"`
	Country   *string `json:"country" example:"DE"`
}

// RecordBatchRequest represents a batch event submission, synchronous or
// queued. Size and item validation happen in the service so capacity is
// checked first.
type RecordBatchRequest struct {
	Events []RecordEventRequest `json:"events"`
}

// ListStatsRequest represents a stats listing query
type ListStatsRequest struct {
	Prefix   string `form:"prefix" example:"purchase"`
	Category string `form:"category" example:"revenue"`
	Format   string `form:"format,default=simple" binding:"omitempty,oneof=simple detailed" example:"detailed"`
	Limit    int    `form:"limit" binding:"min=0" example:"50"`
	Offset   int    `form:"offset" binding:"min=0" example:"0"`
}

// TopMetricsRequest represents a top metrics query
type TopMetricsRequest struct {
	Category string `form:"category" example:"revenue"`
	Limit    int    `form:"limit" binding:"min=0" example:"10"`
	Sort     string `form:"sort,default=desc" example:"desc"`
}

// TimeseriesRequest represents a timeseries query. Metric selects a single
// series; Metrics is a comma-separated list compared on one time axis.
type TimeseriesRequest struct {
	Metric  string `form:"metric" example:"purchase.premium_upgrade"`
	Metrics string `form:"metrics" example:"install,uninstall"`
	Period  string `form:"period,default=day" example:"day"`
	From    *int64 `form:"from" example:"1707912000"`
	To      *int64 `form:"to" example:"1710504000"`
	Country string `form:"country" example:"DE"`
	Limit   int    `form:"limit" binding:"min=0" example:"30"`
}

// ListAppsRequest represents an app listing query
type ListAppsRequest struct {
	WithStats bool `form:"with_stats" example:"true"`
}
