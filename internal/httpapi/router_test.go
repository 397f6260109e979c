package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/suPer8Hu/helpdesk/internal/ai"
	"github.com/suPer8Hu/helpdesk/internal/auditlog"
	"github.com/suPer8Hu/helpdesk/internal/auth"
	"github.com/suPer8Hu/helpdesk/internal/config"
	"github.com/suPer8Hu/helpdesk/internal/conversation"
	"github.com/suPer8Hu/helpdesk/internal/httpapi/handlers"
	"github.com/suPer8Hu/helpdesk/internal/models"
	"github.com/suPer8Hu/helpdesk/internal/ticket"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Complaint{}, &models.Comment{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	cfg := config.Config{JWTSecret: "test-secret", DataDir: t.TempDir()}

	events := auditlog.NewWriter(cfg.DataDir)
	tickets := ticket.NewService(gdb, events)
	// no API key: the oracle is disabled and the canned steps drive the dialogue
	provider := ai.NewGeminiProvider("", "", "")
	engine := conversation.NewEngine(conversation.NewMemoryStore(), provider, true, tickets, auditlog.NewResolvedRecorder(events))

	h := handlers.NewHandler(gdb, cfg, engine, tickets)
	return &testApp{router: NewRouter(h), db: gdb}
}

func (a *testApp) seedUser(t *testing.T, username, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{
		Username:     username,
		Email:        username + "@company.com",
		PasswordHash: hash,
		Role:         role,
		Department:   "HR",
		Designation:  "Staff",
		EmployeeCode: "C-" + username,
	}
	if err := a.db.Create(u).Error; err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return u
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	data, _ := decode(t, w)["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("no token in login response: %s", w.Body.String())
	}
	return token
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "emp1", "emp123", models.RoleEmployee)

	w := app.do(t, http.MethodPost, "/login", "", gin.H{"username": "emp1", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestChat_RequiresAuth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodPost, "/api/chat", "", gin.H{"message": "hi"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestChatFlow_EndToEndEscalation(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "tech1", "tech123", models.RoleTechnician)
	app.seedUser(t, "emp1", "emp123", models.RoleEmployee)
	token := app.login(t, "emp1", "emp123")

	chat := func(msg string) (int, map[string]any) {
		w := app.do(t, http.MethodPost, "/api/chat", token, gin.H{"message": msg})
		return w.Code, decode(t, w)
	}

	for _, msg := range []string{"hi", "Alex", "Engineer", "R&D", "printer not printing", "no"} {
		code, body := chat(msg)
		if code != http.StatusOK {
			t.Fatalf("turn %q: status %d body %v", msg, code, body)
		}
		if body["requiresComplaint"] != false {
			t.Fatalf("turn %q should not require a complaint yet", msg)
		}
	}

	code, body := chat("no")
	if code != http.StatusOK {
		t.Fatalf("final turn: status %d body %v", code, body)
	}
	resp, _ := body["response"].(string)
	if !strings.Contains(resp, "Ticket Number:") || !strings.Contains(resp, "Assigned Technician: tech1") {
		t.Fatalf("unexpected escalation response: %q", resp)
	}

	var c models.Complaint
	if err := app.db.First(&c).Error; err != nil {
		t.Fatalf("no complaint stored: %v", err)
	}
	if c.Status != models.StatusOpen || c.Priority != models.PriorityMedium {
		t.Fatalf("complaint = status %q priority %q", c.Status, c.Priority)
	}
	if !c.ResolutionAttempted || c.EmployeeName != "alex" {
		t.Fatalf("intake snapshot wrong: %+v", c)
	}

	// the new complaint shows up on the reporter's dashboard
	w := app.do(t, http.MethodGet, "/api/dashboard/employee", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: status %d", w.Code)
	}
	complaints, _ := decode(t, w)["complaints"].([]any)
	if len(complaints) != 1 {
		t.Fatalf("dashboard lists %d complaints, want 1", len(complaints))
	}
}

func TestComplaintDetail_RoleGates(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "tech1", "tech123", models.RoleTechnician)
	reporter := app.seedUser(t, "emp1", "emp123", models.RoleEmployee)
	app.seedUser(t, "emp2", "emp123", models.RoleEmployee)
	app.seedUser(t, "admin", "admin123", models.RoleAdmin)

	token := app.login(t, "emp1", "emp123")
	w := app.do(t, http.MethodPost, "/api/complaints", token, gin.H{"issue": "wifi down"})
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}

	var c models.Complaint
	if err := app.db.Where("user_id = ?", reporter.ID).First(&c).Error; err != nil {
		t.Fatalf("load complaint: %v", err)
	}
	path := fmt.Sprintf("/api/complaints/%d", c.ID)

	if w := app.do(t, http.MethodGet, path, token, nil); w.Code != http.StatusOK {
		t.Fatalf("reporter view: status %d", w.Code)
	}

	otherToken := app.login(t, "emp2", "emp123")
	if w := app.do(t, http.MethodGet, path, otherToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("other employee: status %d, want 403", w.Code)
	}

	adminToken := app.login(t, "admin", "admin123")
	if w := app.do(t, http.MethodGet, path, adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("admin view: status %d", w.Code)
	}

	if w := app.do(t, http.MethodGet, "/api/complaints/9999", adminToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing complaint: status %d, want 404", w.Code)
	}
}

func TestMutations_AdminOnly(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "tech1", "tech123", models.RoleTechnician)
	reporter := app.seedUser(t, "emp1", "emp123", models.RoleEmployee)
	app.seedUser(t, "admin", "admin123", models.RoleAdmin)

	empToken := app.login(t, "emp1", "emp123")
	if w := app.do(t, http.MethodPost, "/api/complaints", empToken, gin.H{"issue": "wifi down"}); w.Code != http.StatusOK {
		t.Fatalf("create: status %d", w.Code)
	}
	var c models.Complaint
	if err := app.db.Where("user_id = ?", reporter.ID).First(&c).Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	priorityPath := fmt.Sprintf("/api/complaints/%d/priority", c.ID)
	if w := app.do(t, http.MethodPost, priorityPath, empToken, gin.H{"priority": "High"}); w.Code != http.StatusForbidden {
		t.Fatalf("employee priority change: status %d, want 403", w.Code)
	}

	adminToken := app.login(t, "admin", "admin123")
	if w := app.do(t, http.MethodPost, priorityPath, adminToken, gin.H{"priority": "High"}); w.Code != http.StatusOK {
		t.Fatalf("admin priority change: status %d", w.Code)
	}

	if w := app.do(t, http.MethodDelete, fmt.Sprintf("/api/complaints/%d", c.ID), empToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("employee delete: status %d, want 403", w.Code)
	}
	if w := app.do(t, http.MethodDelete, fmt.Sprintf("/api/complaints/%d", c.ID), adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("admin delete: status %d", w.Code)
	}
}

func TestExport_AdminOnlyCSV(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "tech1", "tech123", models.RoleTechnician)
	app.seedUser(t, "emp1", "emp123", models.RoleEmployee)
	app.seedUser(t, "admin", "admin123", models.RoleAdmin)

	empToken := app.login(t, "emp1", "emp123")
	if w := app.do(t, http.MethodPost, "/api/complaints", empToken, gin.H{"issue": "wifi down"}); w.Code != http.StatusOK {
		t.Fatalf("create: status %d", w.Code)
	}

	if w := app.do(t, http.MethodGet, "/api/export/csv", empToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("employee export: status %d, want 403", w.Code)
	}

	adminToken := app.login(t, "admin", "admin123")
	w := app.do(t, http.MethodGet, "/api/export/csv", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin export: status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.Contains(w.Body.String(), "wifi down") {
		t.Fatalf("export body missing complaint")
	}

	if w := app.do(t, http.MethodGet, "/api/export/docx", adminToken, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown format: status %d, want 400", w.Code)
	}
}
