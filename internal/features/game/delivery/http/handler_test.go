package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	apperrors "tapgame-backend/internal/common/errors"
	"tapgame-backend/internal/common/middleware"
	"tapgame-backend/internal/features/game/models"
	"tapgame-backend/internal/features/game/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct{}

func (fakeAuth) Authenticate(payload string) (*initdata.User, error) {
	if payload != "valid" {
		return nil, errors.New("signature mismatch")
	}
	return &initdata.User{ID: 42, FirstName: "Alice"}, nil
}

type fakeService struct {
	taps     int
	kind     string
	building string
	score    service.ScoreRequest
	limit    int
	err      error
}

func (f *fakeService) EnsurePlayer(_ context.Context, user initdata.User) (*models.Player, error) {
	return &models.Player{ID: 7, TgUserID: user.ID}, nil
}

func (f *fakeService) state() *models.State {
	return &models.State{PlayerID: 7, Tokens: 10, Level: 1, TapPower: 1, Energy: 90, Cap: 100, Theme: "day"}
}

func (f *fakeService) State(context.Context, *models.Player) (*models.State, error) {
	return f.state(), f.err
}

func (f *fakeService) Tap(_ context.Context, _ *models.Player, taps int) (*models.State, error) {
	f.taps = taps
	if f.err != nil {
		return nil, f.err
	}
	return f.state(), nil
}

func (f *fakeService) Buy(_ context.Context, _ *models.Player, kind string) (*models.State, error) {
	f.kind = kind
	if f.err != nil {
		return nil, f.err
	}
	return f.state(), nil
}

func (f *fakeService) Build(_ context.Context, _ *models.Player, building string) (*models.State, error) {
	f.building = building
	if f.err != nil {
		return nil, f.err
	}
	return f.state(), nil
}

func (f *fakeService) ClaimDaily(context.Context, *models.Player) (int64, *models.State, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return 100, f.state(), nil
}

func (f *fakeService) SetScore(_ context.Context, _ *models.Player, req service.ScoreRequest) (json.RawMessage, error) {
	f.score = req
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"message_id":10}`), nil
}

func (f *fakeService) Leaderboard(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	f.limit = limit
	return []models.LeaderboardEntry{{Rank: 1, TgUserID: 42, Name: "Alice", Tokens: 10}}, f.err
}

func newRouter(svc *fakeService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	api := r.Group("/api", middleware.InitDataAuth(fakeAuth{}), middleware.EnsurePlayer(svc))
	NewGameHandler(svc).RegisterRoutes(api)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.InitDataHeader, "valid")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestGetState(t *testing.T) {
	r := newRouter(&fakeService{})

	code, body := do(t, r, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])

	player := body["player"].(map[string]interface{})
	assert.Equal(t, 7.0, player["id"])
	assert.Equal(t, 42.0, player["tg"].(map[string]interface{})["id"])

	state := body["state"].(map[string]interface{})
	assert.Equal(t, 90.0, state["energy"])
	assert.Equal(t, 10.0, state["tokens"])
}

func TestUnauthenticated(t *testing.T) {
	r := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/tap", nil)
	req.Header.Set(middleware.InitDataHeader, "forged")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"INVALID_INITDATA"`)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
}

func TestTap(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	code, body := do(t, r, http.MethodPost, "/api/tap", `{"taps":7}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, 7, svc.taps)

	code, _ = do(t, r, http.MethodPost, "/api/tap", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, svc.taps)

	code, _ = do(t, r, http.MethodPost, "/api/tap", `{"taps":1e12}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, service.MaxTaps, svc.taps)
}

func TestTap_BodyWithInitData(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/tap", strings.NewReader(`{"initData":"valid","taps":4}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, svc.taps)
}

func TestTap_NoEnergy(t *testing.T) {
	svc := &fakeService{err: apperrors.New(apperrors.ErrCodeNoEnergy, "Not enough energy").WithDetail("energy", 0.5)}
	r := newRouter(svc)

	code, body := do(t, r, http.MethodPost, "/api/tap", `{"taps":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "NO_ENERGY", body["error"])
	assert.Equal(t, 0.5, body["energy"])
}

func TestBadBody(t *testing.T) {
	r := newRouter(&fakeService{})

	code, body := do(t, r, http.MethodPost, "/api/buy", `{"kind":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", body["error"])
}

func TestBuyAndBuild(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	code, _ := do(t, r, http.MethodPost, "/api/buy", `{"kind":"regen"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "regen", svc.kind)

	code, _ = do(t, r, http.MethodPost, "/api/build", `{"building":"tower"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "tower", svc.building)

	svc.err = apperrors.New(apperrors.ErrCodeBadBuilding, "Unknown building")
	code, body := do(t, r, http.MethodPost, "/api/build", `{"building":"castle"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_BUILDING", body["error"])
}

func TestDaily(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	code, body := do(t, r, http.MethodPost, "/api/daily", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 100.0, body["reward"])

	svc.err = apperrors.New(apperrors.ErrCodeAlreadyClaimed, "Daily bonus already claimed today")
	code, body = do(t, r, http.MethodPost, "/api/daily", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_CLAIMED", body["error"])
}

func TestSetScore(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	code, body := do(t, r, http.MethodPost, "/api/set-score", `{"score":12.5,"chat_id":5,"message_id":10}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, service.ScoreRequest{Score: 12.5, ChatID: 5, MessageID: 10}, svc.score)
	assert.Equal(t, 10.0, body["result"].(map[string]interface{})["message_id"])

	svc.err = apperrors.NewTelegramAPIError("setGameScore", errors.New("message not found"))
	code, body = do(t, r, http.MethodPost, "/api/set-score", `{"score":1,"inline_message_id":"abc"}`)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "TELEGRAM_API_ERROR", body["error"])
	assert.Equal(t, "abc", svc.score.InlineMessageID)
}

func TestLeaderboard(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	code, body := do(t, r, http.MethodGet, "/api/leaderboard", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, service.DefaultLeaderboardLimit, svc.limit)
	assert.Len(t, body["leaderboard"], 1)

	code, _ = do(t, r, http.MethodGet, "/api/leaderboard?limit=25", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 25, svc.limit)

	code, body = do(t, r, http.MethodGet, "/api/leaderboard?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", body["error"])
}
