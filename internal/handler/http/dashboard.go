package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/handler/http/response"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

type DashboardHandler interface {
	Page(w http.ResponseWriter, r *http.Request)
	SubmitRegistration(w http.ResponseWriter, r *http.Request)
}

type DashboardHandlerImpl struct {
	leaveService leave.LeaveService
}

// dashboardPage is the template data for one rendering cycle.
type dashboardPage struct {
	View   *leave.DashboardView
	All    string
	Notice string
	Error  string

	UsageName     string
	UsagePosition string
	LogName       string
	LogPosition   string
	LogType       string
}

// Page implements DashboardHandler.
func (d *DashboardHandlerImpl) Page(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page := dashboardPage{
		All:           leave.AllSentinel,
		Notice:        values.Get("notice"),
		Error:         values.Get("error"),
		UsageName:     orAll(values.Get("usage_name")),
		UsagePosition: orAll(values.Get("usage_position")),
		LogName:       orAll(values.Get("log_name")),
		LogPosition:   orAll(values.Get("log_position")),
		LogType:       orAll(values.Get("log_type")),
	}

	query, err := dashboardQuery(values)
	if err != nil {
		page.Error = response.Notice(err)
		query = leave.DashboardQuery{Usage: leave.UsageFilter{
			EmployeeName: values.Get("usage_name"),
			Position:     values.Get("usage_position"),
		}}
	}

	status := http.StatusOK
	view, err := d.leaveService.Dashboard(r.Context(), query)
	if err != nil {
		slog.Error("Dashboard render error", "error", err)
		page.Error = response.Notice(err)
		status = http.StatusBadGateway
	} else {
		page.View = &view
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := dashboardTemplate.Execute(w, page); err != nil {
		slog.Error("Dashboard template error", "error", err)
	}
}

// SubmitRegistration implements DashboardHandler. It always redirects back
// to the dashboard with either a confirmation or a failure notice.
func (d *DashboardHandlerImpl) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	redirect := url.Values{}

	if err := r.ParseForm(); err != nil {
		slog.Error("SubmitRegistration parse error", "error", err)
		redirect.Set("error", "Failed to parse form data.")
		http.Redirect(w, r, "/?"+redirect.Encode(), http.StatusSeeOther)
		return
	}

	req := leave.RegisterRequest{
		EmployeeName: r.PostForm.Get("employee_name"),
		Position:     r.PostForm.Get("position"),
		LeaveDate:    r.PostForm.Get("leave_date"),
		LeaveType:    r.PostForm.Get("leave_type"),
	}

	result, err := d.leaveService.Register(r.Context(), req)
	if err != nil {
		redirect.Set("error", response.Notice(err))
	} else {
		redirect.Set("notice", result.Message)
	}
	http.Redirect(w, r, "/?"+redirect.Encode(), http.StatusSeeOther)
}

func orAll(value string) string {
	if value == "" {
		return leave.AllSentinel
	}
	return value
}

func NewDashboardHandler(leaveService leave.LeaveService) DashboardHandler {
	return &DashboardHandlerImpl{
		leaveService: leaveService,
	}
}
