package site

import "darew.com/internal/content"

const (
	recentInquiries = 5
	recentLogs      = 10
)

type DashboardCounts struct {
	Inquiries int `json:"totalInquiries"`
	Projects  int `json:"activeProjects"`
	Services  int `json:"servicesListed"`
	Pending   int `json:"pendingMessages"`
}

type DashboardView struct {
	Counts          DashboardCounts    `json:"counts"`
	RecentInquiries []content.Inquiry  `json:"recentInquiries"`
	RecentLogs      []content.LogEntry `json:"recentLogs"`
}

// Dashboard summarises the admin overview. Pending counts inquiries still New.
func Dashboard(c Catalog) DashboardView {
	inquiries := c.Inquiries()
	logs := c.Logs()
	pending := 0
	for _, inq := range inquiries {
		if inq.Status == content.StatusNew {
			pending++
		}
	}
	return DashboardView{
		Counts: DashboardCounts{
			Inquiries: len(inquiries),
			Projects:  len(c.Projects()),
			Services:  len(c.Offerings()),
			Pending:   pending,
		},
		RecentInquiries: head(inquiries, recentInquiries),
		RecentLogs:      head(logs, recentLogs),
	}
}

func head[T any](in []T, n int) []T {
	if len(in) > n {
		in = in[:n]
	}
	if in == nil {
		return []T{}
	}
	return in
}
