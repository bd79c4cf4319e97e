package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/classify"
	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/internal/fieldcipher"
	"github.com/talentscout/screener/internal/gemini"
	"github.com/talentscout/screener/internal/observability"
	"github.com/talentscout/screener/internal/records"
	"github.com/talentscout/screener/internal/screening"
	"github.com/talentscout/screener/internal/secrets"
)

func newTestServer(t *testing.T) (*Server, records.Store) {
	t.Helper()

	cfg := config.Config{
		SessionInactivityTimeout: 2 * time.Minute,
		AllowAnyOrigin:           true,
	}
	classifier, err := classify.New(classify.Config{Mode: "lexicon"})
	if err != nil {
		t.Fatalf("classify.New() error = %v", err)
	}
	key := bytes.Repeat([]byte{7}, secrets.KeySize)
	cipher, err := fieldcipher.New(key)
	if err != nil {
		t.Fatalf("fieldcipher.New() error = %v", err)
	}
	store := records.NewInMemoryStore()
	metrics := observability.NewMetrics(fmt.Sprintf("httpapi_test_%d", time.Now().UnixNano()))
	controller := screening.NewController(gemini.NewMockCompleter(), classifier, cipher, store, metrics, zap.NewNop())
	sessions := screening.NewManager(screening.SystemPrompt("technology"), cfg.SessionInactivityTimeout)

	return New(cfg, sessions, controller, store, metrics, zap.NewNop()), store
}

func createSession(t *testing.T, baseURL string) string {
	t.Helper()
	res, err := http.Post(baseURL+"/v1/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("create session request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var created map[string]any
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	id, _ := created["session_id"].(string)
	if id == "" {
		t.Fatalf("missing session_id in create response: %+v", created)
	}
	if greeting, _ := created["greeting"].(string); greeting != screening.Greeting {
		t.Fatalf("greeting = %q, want the seeded greeting", greeting)
	}
	return id
}

func TestCreateMessageAndEndSession(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	id := createSession(t, ts.URL)

	body, _ := json.Marshal(map[string]string{"text": "Hi, my name is Ada Lovelace."})
	res, err := http.Post(ts.URL+"/v1/sessions/"+id+"/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post message error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("message status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	var turn screening.TurnResult
	if err := json.NewDecoder(res.Body).Decode(&turn); err != nil {
		t.Fatalf("decode turn response: %v", err)
	}
	if turn.Reply == "" {
		t.Fatal("turn reply is empty")
	}
	if turn.Sentiment == "" {
		t.Fatal("turn sentiment is empty")
	}

	endRes, err := http.Post(ts.URL+"/v1/sessions/"+id+"/end", "application/json", nil)
	if err != nil {
		t.Fatalf("end session error = %v", err)
	}
	defer endRes.Body.Close()
	if endRes.StatusCode != http.StatusOK {
		t.Fatalf("end status = %d, want %d", endRes.StatusCode, http.StatusOK)
	}

	// Messages after end are rejected.
	res2, err := http.Post(ts.URL+"/v1/sessions/"+id+"/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post message error = %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusConflict {
		t.Fatalf("ended session message status = %d, want %d", res2.StatusCode, http.StatusConflict)
	}
}

func TestPostMessageValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	id := createSession(t, ts.URL)

	res, err := http.Post(ts.URL+"/v1/sessions/"+id+"/messages", "application/json", strings.NewReader(`{"text":"  "}`))
	if err != nil {
		t.Fatalf("post message error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank text status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}

	missing, err := http.Post(ts.URL+"/v1/sessions/nope/messages", "application/json", strings.NewReader(`{"text":"hi"}`))
	if err != nil {
		t.Fatalf("post message error = %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown session status = %d, want %d", missing.StatusCode, http.StatusNotFound)
	}
}

func TestResetSession(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	id := createSession(t, ts.URL)

	body, _ := json.Marshal(map[string]string{"text": "I love this opportunity"})
	res, err := http.Post(ts.URL+"/v1/sessions/"+id+"/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post message error = %v", err)
	}
	res.Body.Close()

	resetRes, err := http.Post(ts.URL+"/v1/sessions/"+id+"/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("reset error = %v", err)
	}
	defer resetRes.Body.Close()
	if resetRes.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d, want %d", resetRes.StatusCode, http.StatusOK)
	}
	var reset map[string]any
	if err := json.NewDecoder(resetRes.Body).Decode(&reset); err != nil {
		t.Fatalf("decode reset response: %v", err)
	}
	if reset["status"] != string(screening.StatusIdle) {
		t.Fatalf("status after reset = %v, want idle", reset["status"])
	}

	sentimentRes, err := http.Get(ts.URL + "/v1/admin/sessions/" + id + "/sentiment")
	if err != nil {
		t.Fatalf("sentiment request error = %v", err)
	}
	defer sentimentRes.Body.Close()
	var payload struct {
		Sentiment []screening.SentimentEntry `json:"sentiment"`
	}
	if err := json.NewDecoder(sentimentRes.Body).Decode(&payload); err != nil {
		t.Fatalf("decode sentiment response: %v", err)
	}
	if len(payload.Sentiment) != 0 {
		t.Fatalf("sentiment log after reset = %+v, want empty", payload.Sentiment)
	}
}

func TestAdminCandidatesDecryptsSensitiveFields(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	id := createSession(t, ts.URL)

	body, _ := json.Marshal(map[string]string{"text": "You can reach me at ada@example.com"})
	res, err := http.Post(ts.URL+"/v1/sessions/"+id+"/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post message error = %v", err)
	}
	res.Body.Close()

	adminRes, err := http.Get(ts.URL + "/v1/admin/candidates")
	if err != nil {
		t.Fatalf("admin request error = %v", err)
	}
	defer adminRes.Body.Close()
	if adminRes.StatusCode != http.StatusOK {
		t.Fatalf("admin status = %d, want %d", adminRes.StatusCode, http.StatusOK)
	}
	var payload struct {
		Candidates []candidateRow `json:"candidates"`
	}
	if err := json.NewDecoder(adminRes.Body).Decode(&payload); err != nil {
		t.Fatalf("decode admin response: %v", err)
	}
	if len(payload.Candidates) == 0 {
		t.Fatal("no candidate rows returned")
	}
	last := payload.Candidates[len(payload.Candidates)-1]
	if last.Data["Email"] != "ada@example.com" {
		t.Fatalf("Email = %q, want decrypted plaintext", last.Data["Email"])
	}
}

func TestSessionWebsocketTurn(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	id := createSession(t, ts.URL)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "user_message", "text": "Hello there"}); err != nil {
		t.Fatalf("write error = %v", err)
	}

	var working map[string]any
	if err := conn.ReadJSON(&working); err != nil {
		t.Fatalf("read working frame: %v", err)
	}
	if working["type"] != "assistant_working" {
		t.Fatalf("first frame type = %v, want assistant_working", working["type"])
	}

	var reply map[string]any
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read reply frame: %v", err)
	}
	if reply["type"] != "assistant_message" {
		t.Fatalf("second frame type = %v, want assistant_message", reply["type"])
	}
	if text, _ := reply["text"].(string); text == "" {
		t.Fatal("assistant_message has empty text")
	}

	if err := conn.WriteJSON(map[string]string{"type": "client_control", "action": "end"}); err != nil {
		t.Fatalf("write control error = %v", err)
	}
	var ended map[string]any
	if err := conn.ReadJSON(&ended); err != nil {
		t.Fatalf("read session_event frame: %v", err)
	}
	if ended["type"] != "session_event" || ended["code"] != "ended" {
		t.Fatalf("final frame = %+v, want ended session_event", ended)
	}
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d, want %d", path, res.StatusCode, http.StatusOK)
		}
	}
}
