package domain

import "time"

// ScheduleType selects which IRS schedule a form instance targets.
type ScheduleType string

const (
	ScheduleC ScheduleType = "schedule-c"
	ScheduleE ScheduleType = "schedule-e"
)

// GeneratePath returns the generation endpoint path on the external service.
func (t ScheduleType) GeneratePath() string {
	return "/generate-" + string(t)
}

// ParseScheduleType maps a URL path segment to a schedule, reporting false
// for anything else.
func ParseScheduleType(s string) (ScheduleType, bool) {
	switch t := ScheduleType(s); t {
	case ScheduleC, ScheduleE:
		return t, true
	}
	return "", false
}

// ConnectionStatus is the tri-state reachability of the generation service.
type ConnectionStatus int

const (
	// StatusChecking is the initial state before the first probe resolves.
	StatusChecking ConnectionStatus = iota
	StatusConnected
	StatusDisconnected
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "checking"
	}
}

// ServerInfo carries the capability flags reported by the service /health
// endpoint. Field names follow the backend's JSON exactly.
type ServerInfo struct {
	Status string `json:"status"`
	// PDFLibrary reports whether the service can fill the official form
	// template; Reportlab whether it can draw the fallback layout.
	PDFLibrary     bool `json:"pdf_library"`
	Reportlab      bool `json:"reportlab"`
	TemplateExists bool `json:"template_exists"`
}

// ScheduleCTotals are the derived summary figures shown live on the
// Schedule C screen. Never stored; recomputed from form state on each read.
type ScheduleCTotals struct {
	GrossIncome   float64
	TotalExpenses float64
	NetProfit     float64
}

// PropertyTotals holds the per-property breakdown for Schedule E.
type PropertyTotals struct {
	Income   float64
	Expenses float64
}

type ScheduleETotals struct {
	Properties    [3]PropertyTotals
	TotalIncome   float64
	TotalExpenses float64
	NetIncome     float64
}

// Draft is a saved snapshot of one form's state.
type Draft struct {
	ID       int64
	Schedule ScheduleType
	Title    string
	// Payload is the same flat JSON object the generation endpoint receives.
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
