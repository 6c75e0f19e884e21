package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"event_type: is required"`
}

// RecordEventResponse represents a recorded event and its counter after the commit
type RecordEventResponse struct {
	Metric          string `json:"metric" example:"purchase.premium_upgrade"`
	Category        string `json:"category" example:"revenue"`
	CumulativeValue int64  `json:"cumulative_value" example:"1998"`
}

// RecordedMetric identifies the counter one batch item incremented
type RecordedMetric struct {
	Metric   string `json:"metric" example:"page_view.home"`
	Category string `json:"category" example:"engagement"`
}

// RecordBatchResponse represents a committed batch
type RecordBatchResponse struct {
	Recorded int              `json:"recorded" example:"2"`
	Metrics  []RecordedMetric `json:"metrics"`
}

// AsyncEventsResponse represents a batch accepted onto the ingestion queue
type AsyncEventsResponse struct {
	BatchID  string `json:"batch_id" example:"0b7e6a4e-8f61-4a53-9d36-0e0b6cb1b2de"`
	Accepted int    `json:"accepted" example:"25"`
	Status   string `json:"status" example:"accepted"`
}

// StatDetail represents one counter in the detailed listing
type StatDetail struct {
	Metric      string `json:"metric" example:"purchase.premium_upgrade"`
	Value       int64  `json:"value" example:"1998"`
	Category    string `json:"category" example:"revenue"`
	LastUpdated int64  `json:"last_updated" example:"1710504000"`
}

// Pagination represents the window a detailed listing was cut from
type Pagination struct {
	Total  int64 `json:"total" example:"120"`
	Limit  int   `json:"limit" example:"50"`
	Offset int   `json:"offset" example:"0"`
}

// DetailedStatsResponse represents the detailed stats listing
type DetailedStatsResponse struct {
	AppID      string       `json:"app_id" example:"app1"`
	Stats      []StatDetail `json:"stats"`
	Pagination *Pagination  `json:"pagination,omitempty"`
}

// SimpleStatsResponse represents the simple stats listing
type SimpleStatsResponse struct {
	AppID string           `json:"app_id" example:"app1"`
	Stats map[string]int64 `json:"stats"`
}

// CategoriesResponse represents counter sums per category
type CategoriesResponse struct {
	AppID      string           `json:"app_id" example:"app1"`
	Categories map[string]int64 `json:"categories"`
}

// TopMetricsResponse represents counters sorted by value
type TopMetricsResponse struct {
	AppID   string       `json:"app_id" example:"app1"`
	Sort    string       `json:"sort" example:"desc"`
	Metrics []StatDetail `json:"metrics"`
}

// AppsResponse represents the list of known apps
type AppsResponse struct {
	Apps []string `json:"apps"`
}
