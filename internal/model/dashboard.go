package model

// DashboardStats consolidates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalNews      int                  `json:"total_news"`
	PublishedNews  int                  `json:"published_news"`
	DraftNews      int                  `json:"draft_news"`
	TotalViews     int                  `json:"total_views"`
	TotalAdmins    int                  `json:"total_admins"`
	ActiveAdmins   int                  `json:"active_admins"`
	NewsByPriority map[NewsPriority]int `json:"news_by_priority"`
	RecentActivity []ActivityEntry      `json:"recent_activity"`
}
