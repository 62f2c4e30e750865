package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlin/hanziflash/internal/autostart"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository/sqlite"
	"github.com/jlin/hanziflash/internal/selection"
	"github.com/jlin/hanziflash/internal/session"
	"github.com/jlin/hanziflash/internal/testutil"
)

func newTestServer(t *testing.T, token string) (*Server, http.Handler) {
	t.Helper()

	database := testutil.NewTestDB(t)
	cards := sqlite.NewCardRepository(database.DB)
	connections := sqlite.NewConnectionRepository(database.DB)
	sessionLog := sqlite.NewSessionLogRepository(database.DB)
	store := sqlite.NewSessionStore(database.DB)

	sessions := session.NewManager(
		selection.NewSelector(cards),
		selection.NewConnectionAware(cards, connections),
		cards,
		sessionLog,
		store,
		nil,
		"chinese",
	)

	srv := &Server{
		DB:            database,
		Sessions:      sessions,
		AutoStart:     autostart.New(cards, sessions, "chinese"),
		Cards:         cards,
		APIToken:      token,
		DefaultDomain: "chinese",
	}

	testutil.SeedCard(t, database, models.Card{CategoryKey: "hsk", SetKey: "hsk1", Question: "水", Answer: "water"})
	testutil.SeedCard(t, database, models.Card{CategoryKey: "hsk", SetKey: "hsk1", Question: "火", Answer: "fire"})

	return srv, srv.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ready", rec.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	_, h := newTestServer(t, "secret")

	// Health probes stay open.
	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/sets", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])

	req := httptest.NewRequest(http.MethodGet, "/api/sets", nil)
	req.Header.Set("Authorization", "Bearer secret")
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := doJSON(t, h, http.MethodPost, "/api/sessions", models.StartPayload{
		Mode:         models.ModeMultiSetAll,
		SelectedSets: []string{"hsk1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	start := decodeBody(t, rec)
	sessionID := start["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "Multi-Set Review", start["session_type"])

	rec = doJSON(t, h, http.MethodGet, "/api/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Answer both cards; the returned question tells us which answer to send.
	answers := map[string]string{"水": "water", "火": "fire"}
	question := start["card"].(map[string]any)["question"].(string)
	for i := 0; i < 2; i++ {
		rec = doJSON(t, h, http.MethodPost, "/api/sessions/"+sessionID+"/answer", session.AnswerPayload{
			Answer:         answers[question],
			ResponseTimeMs: 1200,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody(t, rec)
		assert.True(t, resp["evaluation"].(map[string]any)["correct"].(bool))
		if card, ok := resp["card"].(map[string]any); ok {
			question = card["question"].(string)
		}
	}

	rec = doJSON(t, h, http.MethodGet, "/api/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody(t, rec)
	assert.Equal(t, true, state["done"])

	rec = doJSON(t, h, http.MethodPost, "/api/sessions/"+sessionID+"/play-again", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	again := decodeBody(t, rec)
	assert.True(t, strings.HasSuffix(again["practice_name"].(string), "(Play Again)"))

	rec = doJSON(t, h, http.MethodPost, "/api/sessions/"+sessionID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cancel := decodeBody(t, rec)
	assert.Equal(t, true, cancel["cancelled"])
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := doJSON(t, h, http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])
}

func TestMalformedBodyIsRejected(t *testing.T) {
	_, h := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "BAD_REQUEST", body["error"].(map[string]any)["code"])
}

func TestStartValidationErrorOverHTTP(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := doJSON(t, h, http.MethodPost, "/api/sessions", models.StartPayload{Mode: models.ModeMultiSetAll})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body["error"].(map[string]any)["code"])
}

func TestListSetsEndpoint(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := doJSON(t, h, http.MethodGet, "/api/sets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "chinese", body["domain"])
	assert.Equal(t, []any{"hsk1"}, body["sets"])
}

func TestSrsRowsRequiresSetParameter(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := doJSON(t, h, http.MethodGet, "/api/srs/sets", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/srs/sets?set=hsk1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "hsk1", body["set"])
	assert.Len(t, body["rows"], 2)
}

func TestSetStatsEndpoint(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := doJSON(t, h, http.MethodGet, "/api/stats/sets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["sets"], 1)

	rec = doJSON(t, h, http.MethodGet, "/api/stats/sets?set=hsk1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "hsk1", body["set"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["total_cards"])
}

func TestAutoStartAdvisoryOverHTTP(t *testing.T) {
	_, h := newTestServer(t, "")

	// Both seeded cards are unlearned, so auto-start must advise, not start.
	rec := doJSON(t, h, http.MethodPost, "/api/sessions/auto-start", autostart.StartRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, autostart.TypeNewCardsDetected, body["type"])

	rec = doJSON(t, h, http.MethodPost, "/api/sessions/auto-start", autostart.StartRequest{SkipNewCardCheck: true})
	require.Equal(t, http.StatusCreated, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, autostart.TypeSessionStarted, body["type"])
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	_, h := newTestServer(t, "")

	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "my-request")
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	assert.Equal(t, "my-request", out.Header().Get("X-Request-ID"))
}
