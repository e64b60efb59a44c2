package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/service"
	"agencydesk/internal/store"
)

func newTestRouter(t *testing.T, actor model.Actor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.New(store.NewMemory(), nil, nil, zap.NewNop(), 5*time.Second)
	h := NewHandler(svc, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ActorKey, actor)
		c.Next()
	})

	r.POST("/projects", h.CreateProject)
	r.GET("/projects/:id", h.GetAggregate)
	r.POST("/projects/:id/budget", h.CreateBudget)
	r.POST("/budgets/:id/accept", h.AcceptBudget)
	r.DELETE("/budgets/:id", h.DeleteBudget)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProjectEndpoint(t *testing.T) {
	r := newTestRouter(t, model.Actor{ID: "a1", Role: model.RoleAdmin})

	w := doJSON(t, r, http.MethodPost, "/projects", `{"name":"site relaunch","client_id":"c1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var p model.Project
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Status != model.ProjectDraft {
		t.Fatalf("status = %s, want DRAFT", p.Status)
	}

	w = doJSON(t, r, http.MethodGet, "/projects/"+p.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get aggregate status = %d: %s", w.Code, w.Body.String())
	}
}

func TestValidationMapsTo400(t *testing.T) {
	r := newTestRouter(t, model.Actor{ID: "a1", Role: model.RoleAdmin})

	w := doJSON(t, r, http.MethodPost, "/projects", `{"client_id":"c1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestNotFoundMapsTo404(t *testing.T) {
	r := newTestRouter(t, model.Actor{ID: "a1", Role: model.RoleAdmin})

	w := doJSON(t, r, http.MethodGet, "/projects/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}
}

func TestRuleViolationMapsTo422(t *testing.T) {
	r := newTestRouter(t, model.Actor{ID: "a1", Role: model.RoleAdmin})

	w := doJSON(t, r, http.MethodPost, "/projects", `{"name":"x","client_id":"c1"}`)
	var p model.Project
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/projects/"+p.ID+"/budget", `{"total_cents":100000,"currency":"EUR"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("first budget status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/projects/"+p.ID+"/budget", `{"total_cents":200000,"currency":"EUR"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("second budget status = %d, want 422: %s", w.Code, w.Body.String())
	}

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "budget_exists" {
		t.Fatalf("code = %q, want budget_exists", body.Code)
	}
	if body.Error == "" {
		t.Fatal("expected the denial reason in the response")
	}
}

func TestClientCannotDeleteBudget(t *testing.T) {
	r := newTestRouter(t, model.Actor{ID: "c1", Role: model.RoleClient})

	w := doJSON(t, r, http.MethodPost, "/projects", `{"name":"x","client_id":"c1"}`)
	var p model.Project
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	w = doJSON(t, r, http.MethodPost, "/projects/"+p.ID+"/budget", `{"total_cents":100000,"currency":"EUR"}`)
	var b model.Budget
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, r, http.MethodDelete, "/budgets/"+b.ID, "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("client delete status = %d, want 422: %s", w.Code, w.Body.String())
	}
}

func TestMalformedBodyMapsTo400(t *testing.T) {
	r := newTestRouter(t, model.Actor{ID: "a1", Role: model.RoleAdmin})

	w := doJSON(t, r, http.MethodPost, "/projects", `{"name":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}
