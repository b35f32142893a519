package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	questionservice "hanafiyah/contexts/community/question-service"
	questionentities "hanafiyah/contexts/community/question-service/domain/entities"
	searchservice "hanafiyah/contexts/discovery/search-service"
	searchentities "hanafiyah/contexts/discovery/search-service/domain/entities"
	notificationservice "hanafiyah/contexts/engagement/notification-service"
	notificationentities "hanafiyah/contexts/engagement/notification-service/domain/entities"
	accountservice "hanafiyah/contexts/identity-access/account-service"
	accountentities "hanafiyah/contexts/identity-access/account-service/domain/entities"
	lessonservice "hanafiyah/contexts/learning/lesson-service"
	lessonmemory "hanafiyah/contexts/learning/lesson-service/adapters/memory"
	articleservice "hanafiyah/contexts/publishing/article-service"
	eventservice "hanafiyah/contexts/publishing/event-service"
)

type testServer struct {
	*Server
	modules Modules
}

func newTestServer() testServer {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	logger := slog.Default()
	modules := Modules{
		Accounts: accountservice.NewInMemoryModule([]accountentities.User{
			{ID: 1, Username: "ustaz", PasswordHash: accountservice.HashPassword("ustaz-pass"), IsActive: true, IsStaff: true,
				Profile: accountentities.Profile{IsUstaz: true}},
			{ID: 2, Username: "murid", PasswordHash: accountservice.HashPassword("murid-pass"), IsActive: true},
		}, logger),
		Lessons:  lessonservice.NewInMemoryModule(lessonmemory.Seed{}, logger),
		Articles: articleservice.NewInMemoryModule(nil, logger),
		Events:   eventservice.NewInMemoryModule(nil, logger),
		Questions: questionservice.NewInMemoryModule([]questionentities.Question{
			{ID: 1, Content: "Как совершать намаз в пути?", Telegram: "traveller", CreatedAt: base,
				Answer: &questionentities.Answer{Content: "Сокращайте четырёхракаатные намазы.", CreatedAt: base.Add(time.Hour)}},
			{ID: 2, Content: "Что нарушает пост?", Telegram: "faster", CreatedAt: base.Add(2 * time.Hour)},
			{ID: 3, Content: "Когда выплачивать закят?", Telegram: "merchant", CreatedAt: base.Add(3 * time.Hour)},
		}, logger),
		Notifications: notificationservice.NewInMemoryModule([]notificationentities.Recipient{
			{UserID: 2, Username: "murid"},
		}, nil, logger),
		Search: searchservice.NewInMemoryModule(searchentities.Corpus{}, nil, nil, logger),
	}
	return testServer{
		Server:  New(modules, Options{Addr: ":0", PageSize: 2}, logger),
		modules: modules,
	}
}

func (s testServer) token(t *testing.T, username, password string) string {
	t.Helper()
	pair, err := s.modules.Accounts.Service.Login(context.Background(), username, password)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return pair.Access
}

func (s testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func jsonRequest(method, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetMeRequiresAuthentication(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/me", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetMeReturnsAuthenticatedUser(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/me", nil)
	req.Header.Set("Authorization", "Bearer "+server.token(t, "murid", "murid-pass"))

	rr := server.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Username != "murid" {
		t.Fatalf("expected murid, got %q", body.Username)
	}
}

func TestInvalidBearerTokenFailsPublicEndpoint(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rr := server.do(req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterReturnsCreated(t *testing.T) {
	server := newTestServer()
	rr := server.do(jsonRequest(http.MethodPost, "/api/accounts/register",
		`{"username":"talib","email":"talib@example.com","password":"long-password","profile":{"telegram":"@talib"}}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = server.do(jsonRequest(http.MethodPost, "/api/accounts/register",
		`{"username":"talib","password":"long-password"}`))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server := newTestServer()
	rr := server.do(jsonRequest(http.MethodPost, "/api/accounts/login", `{"username":"murid","password":"wrong"}`))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateArticleRequiresStaff(t *testing.T) {
	server := newTestServer()
	body := `{"title":"Условия намаза","content":"<p>Чистота, время, кибла.</p>"}`

	rr := server.do(jsonRequest(http.MethodPost, "/api/articles", body))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}

	req := jsonRequest(http.MethodPost, "/api/articles", body)
	req.Header.Set("Authorization", "Bearer "+server.token(t, "murid", "murid-pass"))
	rr = server.do(req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = jsonRequest(http.MethodPost, "/api/articles", body)
	req.Header.Set("Authorization", "Bearer "+server.token(t, "ustaz", "ustaz-pass"))
	rr = server.do(req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestQuestionListUsesPageEnvelope(t *testing.T) {
	server := newTestServer()

	rr := server.do(httptest.NewRequest(http.MethodGet, "/api/questions", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var first struct {
		Count    int               `json:"count"`
		Next     *int              `json:"next"`
		Previous *int              `json:"previous"`
		Results  []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Count != 3 || len(first.Results) != 2 || first.Next == nil || *first.Next != 2 || first.Previous != nil {
		t.Fatalf("unexpected first page: %s", rr.Body.String())
	}

	rr = server.do(httptest.NewRequest(http.MethodGet, "/api/questions?page=2", nil))
	var second struct {
		Next     *int              `json:"next"`
		Previous *int              `json:"previous"`
		Results  []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(second.Results) != 1 || second.Next != nil || second.Previous == nil || *second.Previous != 1 {
		t.Fatalf("unexpected second page: %s", rr.Body.String())
	}

	rr = server.do(httptest.NewRequest(http.MethodGet, "/api/questions?page=0", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPageBeyondLastIsNotFound(t *testing.T) {
	server := newTestServer()

	rr := server.do(httptest.NewRequest(http.MethodGet, "/api/questions?page=99", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "invalid_page" || body.Message != "Invalid page." {
		t.Fatalf("unexpected error body %+v", body)
	}

	rr = server.do(httptest.NewRequest(http.MethodGet, "/api/questions?page=3", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 one page past the end, got %d", rr.Code)
	}

	rr = server.do(httptest.NewRequest(http.MethodGet, "/api/questions?search=zzzz&page=1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected empty first page to be 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var empty struct {
		Count   int               `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &empty); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if empty.Count != 0 || len(empty.Results) != 0 {
		t.Fatalf("unexpected empty page: %s", rr.Body.String())
	}
}

func TestAskQuestionReturnsSimilarOrCreates(t *testing.T) {
	server := newTestServer()

	rr := server.do(jsonRequest(http.MethodPost, "/api/questions", `{"content":"намаз в пути","telegram":"@asker"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var similar struct {
		SimilarQuestions []json.RawMessage `json:"similar_questions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &similar); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(similar.SimilarQuestions) != 1 {
		t.Fatalf("expected one similar question, got %s", rr.Body.String())
	}

	rr = server.do(jsonRequest(http.MethodPost, "/api/questions", `{"content":"Можно ли читать Коран без омовения?","telegram":"@asker"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAnswerQuestionRequiresUstaz(t *testing.T) {
	server := newTestServer()
	req := jsonRequest(http.MethodPost, "/api/questions/2/answer", `{"content":"Еда и питьё днём."}`)
	req.Header.Set("Authorization", "Bearer "+server.token(t, "murid", "murid-pass"))

	rr := server.do(req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	server := newTestServer()
	rr := server.do(httptest.NewRequest(http.MethodGet, "/api/search", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSearchReportsUnavailableEngine(t *testing.T) {
	server := newTestServer()
	server.modules.Search.Engine.SetAvailable(false)

	rr := server.do(httptest.NewRequest(http.MethodGet, "/api/search?q=namaz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeletePushSubscriptionReturnsNoContent(t *testing.T) {
	server := newTestServer()
	token := server.token(t, "murid", "murid-pass")

	req := jsonRequest(http.MethodPost, "/api/notifications/push-subscriptions",
		`{"subscription_info":{"endpoint":"https://push.example.com/1"},"browser":"firefox","device":"laptop"}`)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := server.do(req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/notifications/push-subscriptions/"+strconv.FormatInt(created.ID, 10), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = server.do(req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/notifications/push-subscriptions/"+strconv.FormatInt(created.ID, 10), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = server.do(req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCORSPreflightAllowsFrontendOrigin(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/api/questions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := server.do(req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestTrailingSlashRoutesToSameHandler(t *testing.T) {
	server := newTestServer()
	rr := server.do(httptest.NewRequest(http.MethodGet, "/api/articles/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}
