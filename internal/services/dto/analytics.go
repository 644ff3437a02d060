package dto

// AnalyticsQuery selects the window of GET /api/analytics.
type AnalyticsQuery struct {
	WindowDays *int `form:"window_days" json:"window_days" validate:"omitempty,min=1,max=3650"`
	All        bool `form:"all" json:"all"`
}

// HealthResponse reports process and store state.
type HealthResponse struct {
	Status        string `json:"status"`
	Store         string `json:"store"`
	StoreError    string `json:"store_error,omitempty"`
	Users         int    `json:"users"`
	Feedback      int    `json:"feedback"`
	Sessions      int    `json:"sessions"`
	Subscribers   int    `json:"subscribers"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
