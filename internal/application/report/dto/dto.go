package dto

import "time"

// NamedCount is one row of a breakdown, e.g. tickets per club.
type NamedCount struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type ReportTicketRow struct {
	ID            uint      `json:"id"`
	RequestNumber string    `json:"request_number"`
	Title         string    `json:"title"`
	Club          string    `json:"club"`
	Status        string    `json:"status"`
	StatusLabel   string    `json:"status_label"`
	EmployeeName  string    `json:"employee_name"`
	Technician    string    `json:"technician,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type WeeklyReportDTO struct {
	PeriodStart            time.Time         `json:"period_start"`
	PeriodEnd              time.Time         `json:"period_end"`
	Total                  int64             `json:"total"`
	CreatedThisWeek        int64             `json:"created_this_week"`
	ClosedThisWeek         int64             `json:"closed_this_week"`
	AverageResolutionHours float64           `json:"average_resolution_hours"`
	ByStatus               map[string]int64  `json:"by_status"`
	ByClub                 []NamedCount      `json:"by_club"`
	ByTechnician           []NamedCount      `json:"by_technician"`
	Tickets                []ReportTicketRow `json:"tickets"`
}

type SendWeeklyReportResult struct {
	Report     *WeeklyReportDTO `json:"report"`
	Recipients int              `json:"recipients"`
	Sent       int              `json:"sent"`
	Failed     []string         `json:"failed,omitempty"`
}
