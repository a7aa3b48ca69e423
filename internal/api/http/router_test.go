package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/magicplay247/agent-panel/internal/api/http/handlers"
	"github.com/magicplay247/agent-panel/internal/auth"
	"github.com/magicplay247/agent-panel/internal/domain"
	"github.com/magicplay247/agent-panel/internal/events"
	"github.com/magicplay247/agent-panel/internal/repository"
	"github.com/magicplay247/agent-panel/internal/service"
	"github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

const (
	testAdminEmail    = "admin@magicplay247.com"
	testAdminPassword = "correct-horse-battery"
)

// memoryAgentRepo mirrors the SQL repository's contract closely enough for
// routing tests: per-type sequences, pgx.ErrNoRows on misses and the
// downline guard on delete.
type memoryAgentRepo struct {
	mu     sync.Mutex
	agents map[string]domain.Agent
	clock  time.Time
}

func newMemoryAgentRepo() *memoryAgentRepo {
	return &memoryAgentRepo{
		agents: make(map[string]domain.Agent),
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memoryAgentRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memoryAgentRepo) Create(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := 0
	for _, existing := range r.agents {
		if existing.Type == agent.Type && existing.Seq > seq {
			seq = existing.Seq
		}
	}
	agent.Seq = seq + 1
	agent.ID = domain.ComposeAgentID("MP247", agent.Type, agent.Seq)
	now := r.tick()
	agent.CreatedAt = now
	agent.UpdatedAt = now
	r.agents[agent.ID] = *agent
	return nil
}

func (r *memoryAgentRepo) Update(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[agent.ID]; !ok {
		return pgx.ErrNoRows
	}
	agent.UpdatedAt = r.tick()
	r.agents[agent.ID] = *agent
	return nil
}

func (r *memoryAgentRepo) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &agent, nil
}

func (r *memoryAgentRepo) ListByType(_ context.Context, agentType domain.AgentType) ([]domain.Agent, error) {
	return r.collect(func(a domain.Agent) bool { return a.Type == agentType }), nil
}

func (r *memoryAgentRepo) ListDownline(_ context.Context, agentID string) ([]domain.Agent, error) {
	return r.collect(func(a domain.Agent) bool { return a.UplineID != nil && *a.UplineID == agentID }), nil
}

func (r *memoryAgentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, agent := range r.agents {
		if agent.UplineID != nil && *agent.UplineID == id {
			return errorutil.NewHasDownline(id)
		}
	}
	delete(r.agents, id)
	return nil
}

func (r *memoryAgentRepo) collect(match func(domain.Agent) bool) []domain.Agent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Agent
	for _, agent := range r.agents {
		if match(agent) {
			result = append(result, agent)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

type memoryNoticeRepo struct {
	mu      sync.Mutex
	notices map[string]domain.Notice
}

func newMemoryNoticeRepo() *memoryNoticeRepo {
	return &memoryNoticeRepo{notices: make(map[string]domain.Notice)}
}

func (r *memoryNoticeRepo) Create(_ context.Context, notice *domain.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	notice.CreatedAt = now
	notice.UpdatedAt = now
	r.notices[notice.ID] = *notice
	return nil
}

func (r *memoryNoticeRepo) Update(_ context.Context, notice *domain.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notices[notice.ID]; !ok {
		return pgx.ErrNoRows
	}
	notice.UpdatedAt = time.Now()
	r.notices[notice.ID] = *notice
	return nil
}

func (r *memoryNoticeRepo) GetByID(_ context.Context, id string) (*domain.Notice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notice, ok := r.notices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &notice, nil
}

func (r *memoryNoticeRepo) List(_ context.Context) ([]domain.Notice, error) {
	return r.collect(func(domain.Notice) bool { return true }), nil
}

func (r *memoryNoticeRepo) ListActive(_ context.Context) ([]domain.Notice, error) {
	return r.collect(func(n domain.Notice) bool { return n.IsActive }), nil
}

func (r *memoryNoticeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notices[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.notices, id)
	return nil
}

func (r *memoryNoticeRepo) collect(match func(domain.Notice) bool) []domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Notice
	for _, notice := range r.notices {
		if match(notice) {
			result = append(result, notice)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

type memoryReportRepo struct {
	mu      sync.Mutex
	reports []domain.Report
	nextID  int64
}

func (r *memoryReportRepo) Append(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	report.ID = r.nextID
	report.Timestamp = time.Now()
	r.reports = append(r.reports, *report)
	return nil
}

func (r *memoryReportRepo) List(_ context.Context) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Report, len(r.reports))
	for i := range r.reports {
		result[len(r.reports)-1-i] = r.reports[i]
	}
	return result, nil
}

type memoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]struct{}
}

func newMemoryRevocationStore() *memoryRevocationStore {
	return &memoryRevocationStore{revoked: make(map[string]struct{})}
}

func (s *memoryRevocationStore) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = struct{}{}
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

var (
	_ repository.AgentRepository  = (*memoryAgentRepo)(nil)
	_ repository.NoticeRepository = (*memoryNoticeRepo)(nil)
	_ repository.ReportRepository = (*memoryReportRepo)(nil)
	_ repository.RevocationStore  = (*memoryRevocationStore)(nil)
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	agentRepo := newMemoryAgentRepo()
	dispatcher := events.NewInMemoryDispatcher()

	agentService := service.NewAgentService(service.AgentDependencies{
		AgentRepo:  agentRepo,
		Dispatcher: dispatcher,
	})
	noticeService := service.NewNoticeService(newMemoryNoticeRepo(), dispatcher)
	reportService := service.NewReportService(&memoryReportRepo{}, agentRepo, dispatcher)

	passwordHash, err := auth.HashPassword(testAdminPassword, 4)
	require.NoError(t, err)
	verifier := auth.NewStaticVerifier(testAdminEmail, passwordHash)
	tokenMgr := auth.NewTokenManager("router-test-secret", time.Hour)
	revoked := newMemoryRevocationStore()
	authService := service.NewAuthService(verifier, tokenMgr, revoked)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, zap.NewNop(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("agent-panel", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Agents:         handlers.NewAgentsHandler(agentService),
		Notices:        handlers.NewNoticesHandler(noticeService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenMgr, revoked),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := nethttp.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func loginAdmin(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := doJSON(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	token, _ := body["data"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestMutationsRequireAdminToken(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/agents/", "", map[string]string{
		"name": "Rashed", "phone": "+8801712345678", "type": "admin",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	resp, body = doJSON(t, app, nethttp.MethodGet, "/reports/", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
		"email": testAdminEmail, "password": "wrong",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestCreateAndFetchAgent(t *testing.T) {
	app := newTestApp(t)
	token := loginAdmin(t, app)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/agents/", token, map[string]string{
		"name": "Rashed Khan", "phone": "+8801712345678", "type": "admin",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, "body: %v", body)

	data := body["data"].(map[string]any)
	assert.Equal(t, "MP247-ADMIN-0001", data["id"])
	assert.Equal(t, "Admin", data["role"])
	assert.Equal(t, float64(1), data["level"])
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, float64(5), data["rating"])

	resp, body = doJSON(t, app, nethttp.MethodGet, "/agents/MP247-ADMIN-0001", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "Rashed Khan", body["data"].(map[string]any)["name"])

	resp, body = doJSON(t, app, nethttp.MethodGet, "/agents/MP247-ADMIN-0404", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestListAgentsRequiresValidType(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodGet, "/agents/?type=warlord", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	resp, body = doJSON(t, app, nethttp.MethodGet, "/agents/", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestUplineListingIsPublic(t *testing.T) {
	app := newTestApp(t)
	token := loginAdmin(t, app)

	_, body := doJSON(t, app, nethttp.MethodPost, "/agents/", token, map[string]string{
		"name": "Rashed Khan", "phone": "+8801712345678", "type": "admin",
	})
	adminID := body["data"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, app, nethttp.MethodGet, "/agents/upline?type=senior-sub-admin", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, adminID, items[0].(map[string]any)["id"])

	// the level-1 type has no upline tier; an empty list, not an error
	resp, body = doJSON(t, app, nethttp.MethodGet, "/agents/upline?type=admin", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])
}

func TestDeleteWithDownlineConflicts(t *testing.T) {
	app := newTestApp(t)
	token := loginAdmin(t, app)

	_, body := doJSON(t, app, nethttp.MethodPost, "/agents/", token, map[string]string{
		"name": "Rashed Khan", "phone": "+8801712345678", "type": "admin",
	})
	adminID := body["data"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/agents/", token, map[string]any{
		"name": "Sumi Akter", "phone": "+8801812345678", "type": "senior-sub-admin", "upline_id": adminID,
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, "body: %v", body)
	childID := body["data"].(map[string]any)["id"].(string)

	resp, body = doJSON(t, app, nethttp.MethodDelete, "/agents/"+adminID, token, nil)
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)
	assert.Equal(t, "HAS_DOWNLINE", errorCode(body))

	resp, _ = doJSON(t, app, nethttp.MethodDelete, "/agents/"+childID, token, nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
	resp, _ = doJSON(t, app, nethttp.MethodDelete, "/agents/"+adminID, token, nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
}

func TestUpdateRejectsImmutableFields(t *testing.T) {
	app := newTestApp(t)
	token := loginAdmin(t, app)

	_, body := doJSON(t, app, nethttp.MethodPost, "/agents/", token, map[string]string{
		"name": "Rashed Khan", "phone": "+8801712345678", "type": "admin",
	})
	adminID := body["data"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, app, nethttp.MethodPatch, "/agents/"+adminID, token, map[string]string{
		"type": "sub-admin",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	resp, body = doJSON(t, app, nethttp.MethodPatch, "/agents/"+adminID, token, map[string]string{
		"name": "Rashed K.",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "Rashed K.", body["data"].(map[string]any)["name"])
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := loginAdmin(t, app)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/agents/", token, map[string]string{
		"name": "Rashed Khan", "phone": "+8801712345678", "type": "admin",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestReportSubmissionIsPublic(t *testing.T) {
	app := newTestApp(t)
	token := loginAdmin(t, app)

	_, body := doJSON(t, app, nethttp.MethodPost, "/agents/", token, map[string]string{
		"name": "Rashed Khan", "phone": "+8801712345678", "type": "admin",
	})
	adminID := body["data"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/reports/", "", map[string]string{
		"agent_id":        adminID,
		"whatsapp_number": "+8801911111111",
		"reason":          "Asked for payment outside the platform.",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, "body: %v", body)
	assert.Equal(t, "Rashed Khan", body["data"].(map[string]any)["agent_name"])

	resp, body = doJSON(t, app, nethttp.MethodGet, "/reports/", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Len(t, body["data"].([]any), 1)
}

func TestNoticeBoardVisibility(t *testing.T) {
	app := newTestApp(t)
	token := loginAdmin(t, app)

	for i, active := range []bool{true, false} {
		resp, body := doJSON(t, app, nethttp.MethodPost, "/notices/", token, map[string]any{
			"title":     fmt.Sprintf("Notice %d", i),
			"content":   "Scheduled maintenance window.",
			"priority":  "high",
			"is_active": active,
		})
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode, "body: %v", body)
	}

	resp, body := doJSON(t, app, nethttp.MethodGet, "/notices/active", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 1)

	resp, body = doJSON(t, app, nethttp.MethodGet, "/notices/", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 2)
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodGet, "/health/live", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
}

func TestHealthReadyReportsDependencyFailures(t *testing.T) {
	// the test app runs without real stores, so both pings must fail
	app := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))

	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "postgres")
	assert.Contains(t, details, "redis")
}
