package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/jwt"
	leaveService "github.com/cmlabs-hris/leave-dashboard-go/internal/service/leave"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type memoryStore struct {
	usage     leave.UsageTable
	logs      leave.LogTable
	loadErr   error
	appendErr error
}

func (m *memoryStore) LoadUsage(ctx context.Context) (leave.UsageTable, error) {
	return m.usage, m.loadErr
}

func (m *memoryStore) LoadLogs(ctx context.Context) (leave.LogTable, error) {
	return m.logs, m.loadErr
}

func (m *memoryStore) Append(ctx context.Context, row leave.AppendRow) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	v := row.Values()
	m.logs.Records = append(m.logs.Records, leave.NewLogRecord(v[0], v[1], v[2], v[3], v[4]))
	return nil
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		usage: leave.UsageTable{
			Columns: []string{"usage_rate"},
			Records: []leave.UsageRecord{
				{EmployeeID: "E1", EmployeeName: "Kim", Position: "Manager", Rates: []leave.Cell{{Column: "usage_rate", Value: "20%"}}},
				{EmployeeID: "E2", EmployeeName: "Lee", Position: "Staff", Rates: []leave.Cell{{Column: "usage_rate", Value: "50%"}}},
			},
		},
		logs: leave.LogTable{Records: []leave.LogRecord{
			leave.NewLogRecord("E1", "Kim", "Manager", "2024-01-15", "full-day"),
			leave.NewLogRecord("E2", "Lee", "Staff", "2024-02-01", "half-day"),
			leave.NewLogRecord("E2", "Lee", "Staff", "broken", "half-day"),
		}},
	}
}

func createTestRouter(t *testing.T, store *memoryStore, jwtService jwt.Service) *chi.Mux {
	t.Helper()
	svc := leaveService.NewLeaveService(store, store, leaveService.Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC) },
	})
	return NewRouter(RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		JWTService:     jwtService,
	}, NewLeaveHandler(svc), NewDashboardHandler(svc))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) response.Response {
	t.Helper()
	var body struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	if data != nil && len(body.Data) > 0 {
		require.NoError(t, json.Unmarshal(body.Data, data))
	}
	return body.Response
}

// ===== HANDLER TESTS =====

func TestLeaveHandler_ListUsage(t *testing.T) {
	router := createTestRouter(t, newMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage?employee_name=all&position=Staff", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var view leave.UsageView
	resp := decodeResponse(t, rec, &view)
	assert.True(t, resp.Success)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Lee", view.Rows[0].EmployeeName)
	assert.NotContains(t, rec.Body.String(), "E2")
}

func TestLeaveHandler_ListLogs(t *testing.T) {
	router := createTestRouter(t, newMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leave-logs?start_date=2024-01-01&end_date=2024-12-31", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var view leave.LogView
	decodeResponse(t, rec, &view)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "2024-02-01", view.Rows[0].LeaveDate)
	assert.Equal(t, "2024-01-15", view.Rows[1].LeaveDate)
}

func TestLeaveHandler_ListLogs_InvalidRange(t *testing.T) {
	router := createTestRouter(t, newMemoryStore(), nil)

	cases := []string{
		"/api/v1/leave-logs?start_date=2024-13-01",
		"/api/v1/leave-logs?start_date=2024-03-01&end_date=2024-01-01",
	}
	for _, target := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
		resp := decodeResponse(t, rec, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	}
}

func TestLeaveHandler_ListTypes(t *testing.T) {
	router := createTestRouter(t, newMemoryStore(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leave-types", nil))

	var types []string
	decodeResponse(t, rec, &types)
	assert.Equal(t, []string{"full-day", "half-day"}, types)
}

func TestLeaveHandler_Dashboard(t *testing.T) {
	router := createTestRouter(t, newMemoryStore(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?usage_name=Kim&log_type=half-day", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var view leave.DashboardView
	decodeResponse(t, rec, &view)
	assert.Len(t, view.Usage.Rows, 1)
	assert.Len(t, view.Logs.Rows, 1)
	assert.Equal(t, "2024-03-10", view.Form.DefaultDate)
}

func TestLeaveHandler_Register_Success(t *testing.T) {
	store := newMemoryStore()
	router := createTestRouter(t, store, nil)

	body, _ := json.Marshal(leave.RegisterRequest{EmployeeName: "Kim", Position: "Manager", LeaveDate: "2024-01-15", LeaveType: "full-day"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leave-logs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var row leave.RegisteredRow
	resp := decodeResponse(t, rec, &row)
	assert.Equal(t, "Kim's leave has been registered.", resp.Message)
	assert.Equal(t, leave.RegisteredRow{EmployeeID: "E1", EmployeeName: "Kim", Position: "Manager", LeaveDate: "2024-01-15", LeaveType: "full-day"}, row)
	assert.Len(t, store.logs.Records, 4)
}

func TestLeaveHandler_Register_Failures(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		appendErr  error
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"employee_name":`, nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"validation", `{"employee_name":"Kim","position":"Manager","leave_type":"sabbatical"}`, nil, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"append failure", `{"employee_name":"Kim","position":"Manager","leave_type":"full-day"}`, errors.New("503 backend"), http.StatusBadGateway, "STORE_ERROR"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			store := newMemoryStore()
			store.appendErr = c.appendErr
			router := createTestRouter(t, store, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/leave-logs", strings.NewReader(c.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, c.wantStatus, rec.Code)
			resp := decodeResponse(t, rec, nil)
			assert.Equal(t, c.wantCode, resp.Error.Code)
			assert.Len(t, store.logs.Records, 3)
		})
	}
}

func TestLeaveHandler_StoreUnavailable(t *testing.T) {
	store := newMemoryStore()
	store.loadErr = errors.New("dial tcp: timeout")
	router := createTestRouter(t, store, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeResponse(t, rec, nil)
	assert.Equal(t, "Leave store unavailable", resp.Error.Message)
}

func TestLeaveHandler_Register_RequiresToken(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	store := newMemoryStore()
	router := createTestRouter(t, store, jwtService)
	body := `{"employee_name":"Lee","position":"Staff","leave_date":"2024-02-02","leave_type":"half-day"}`

	// Without token
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leave-logs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With a token signed by another secret
	otherToken, _, err := jwt.NewJWTService("other-secret", "1h").GenerateAccessToken("hr-desk")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/leave-logs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+otherToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With a valid token
	token, _, err := jwtService.GenerateAccessToken("hr-desk")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/leave-logs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, store.logs.Records, 4)

	// Reads stay public
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leave-logs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ===== DASHBOARD PAGE TESTS =====

func TestDashboardHandler_Page(t *testing.T) {
	router := createTestRouter(t, newMemoryStore(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?usage_position=Staff&notice=Kim%27s+leave+has+been+registered.", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	html := rec.Body.String()
	assert.Contains(t, html, "Leave usage")
	assert.Contains(t, html, "Register leave")
	assert.Contains(t, html, "Leave log")
	assert.Contains(t, html, `value="2024-03-10"`)
	assert.Contains(t, html, `<option value="Staff" selected>Staff</option>`)
	assert.Contains(t, html, "Kim&#39;s leave has been registered.")
	assert.Contains(t, html, "50%")
	assert.NotContains(t, html, "20%")
}

func TestDashboardHandler_Page_UsageFormKeepsLogRange(t *testing.T) {
	router := createTestRouter(t, newMemoryStore(), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?start_date=2024-01-20&end_date=2024-02-10&log_type=half-day", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	usageForm := html[strings.Index(html, `<section id="usage">`):strings.Index(html, `<section id="register">`)]
	assert.Contains(t, usageForm, `<input type="hidden" name="start_date" value="2024-01-20">`)
	assert.Contains(t, usageForm, `<input type="hidden" name="end_date" value="2024-02-10">`)
	assert.Contains(t, usageForm, `<input type="hidden" name="log_type" value="half-day">`)
}

func TestDashboardHandler_Page_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.loadErr = errors.New("permission denied")
	router := createTestRouter(t, store, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Leave store unavailable.")
	assert.NotContains(t, rec.Body.String(), "Register leave")
}

func TestDashboardHandler_SubmitRegistration(t *testing.T) {
	cases := []struct {
		name      string
		form      url.Values
		appendErr error
		wantParam string
		wantText  string
	}{
		{
			name:      "success",
			form:      url.Values{"employee_name": {"Lee"}, "position": {"Staff"}, "leave_date": {"2024-03-11"}, "leave_type": {"half-day"}},
			wantParam: "notice",
			wantText:  "Lee's leave has been registered.",
		},
		{
			name:      "append failure",
			form:      url.Values{"employee_name": {"Lee"}, "position": {"Staff"}, "leave_date": {"2024-03-11"}, "leave_type": {"half-day"}},
			appendErr: errors.New("quota"),
			wantParam: "error",
			wantText:  "Leave registration could not be saved. Please try again.",
		},
		{
			name:      "invalid form",
			form:      url.Values{"employee_name": {"Lee"}, "position": {"Staff"}, "leave_type": {"unpaid"}},
			wantParam: "error",
			wantText:  "Please check the form: leave_type: leave_type must be one of the configured leave types",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			store := newMemoryStore()
			store.appendErr = c.appendErr
			router := createTestRouter(t, store, nil)

			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(c.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			location, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/", location.Path)
			assert.Equal(t, c.wantText, location.Query().Get(c.wantParam))
		})
	}
}

func TestRouter_MetricsAndHeartbeat(t *testing.T) {
	svc := leaveService.NewLeaveService(newMemoryStore(), newMemoryStore(), leaveService.Options{Location: time.UTC})
	router := NewRouter(RouterOptions{
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("leave_dashboard_registrations_total 0\n"))
		}),
	}, NewLeaveHandler(svc), NewDashboardHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leave_dashboard_registrations_total")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without a handler the path is not served
	router = createTestRouter(t, newMemoryStore(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardHandler_SubmitRegistration_RequiresToken(t *testing.T) {
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	store := newMemoryStore()
	router := createTestRouter(t, store, jwtService)
	form := url.Values{"employee_name": {"Lee"}, "position": {"Staff"}, "leave_date": {"2024-03-11"}, "leave_type": {"half-day"}}

	// Without the cookie the browser is sent back with a notice
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", location.Path)
	assert.Equal(t, middleware.LoginRequiredNotice, location.Query().Get("error"))
	assert.Len(t, store.logs.Records, 3)

	// With the jwt cookie the registration goes through
	token, _, err := jwtService.GenerateAccessToken("hr-desk")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	location, err = url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "Lee's leave has been registered.", location.Query().Get("notice"))
	assert.Len(t, store.logs.Records, 4)
}
