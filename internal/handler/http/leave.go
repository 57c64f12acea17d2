package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/handler/http/response"
)

type LeaveHandler interface {
	ListUsage(w http.ResponseWriter, r *http.Request)
	ListLogs(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

// ListUsage implements LeaveHandler.
func (l *LeaveHandlerImpl) ListUsage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := leave.UsageFilter{
		EmployeeName: query.Get("employee_name"),
		Position:     query.Get("position"),
	}

	view, err := l.leaveService.ListUsage(r.Context(), filter)
	if err != nil {
		slog.Error("ListUsage service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// ListLogs implements LeaveHandler.
func (l *LeaveHandlerImpl) ListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := leave.LogFilterRequest{
		EmployeeName: query.Get("employee_name"),
		Position:     query.Get("position"),
		LeaveType:    query.Get("leave_type"),
		StartDate:    query.Get("start_date"),
		EndDate:      query.Get("end_date"),
	}.ToFilter()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	view, err := l.leaveService.ListLogs(r.Context(), filter)
	if err != nil {
		slog.Error("ListLogs service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	response.Success(w, l.leaveService.LeaveTypes())
}

// Dashboard implements LeaveHandler.
func (l *LeaveHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	query, err := dashboardQuery(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	view, err := l.leaveService.Dashboard(r.Context(), query)
	if err != nil {
		slog.Error("Dashboard service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// Register implements LeaveHandler.
func (l *LeaveHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req leave.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.leaveService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result.Row)
}

// dashboardQuery reads the filters of every dashboard region.
func dashboardQuery(values url.Values) (leave.DashboardQuery, error) {
	logFilter, err := leave.LogFilterRequest{
		EmployeeName: values.Get("log_name"),
		Position:     values.Get("log_position"),
		LeaveType:    values.Get("log_type"),
		StartDate:    values.Get("start_date"),
		EndDate:      values.Get("end_date"),
	}.ToFilter()
	if err != nil {
		return leave.DashboardQuery{}, err
	}

	return leave.DashboardQuery{
		Usage: leave.UsageFilter{
			EmployeeName: values.Get("usage_name"),
			Position:     values.Get("usage_position"),
		},
		Logs: logFilter,
	}, nil
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}
