package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapgame-backend/internal/features/webhook/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBot struct {
	chats []int64
	urls  []string
}

func (b *fakeBot) SendGame(chatID int64, _ string) error {
	b.chats = append(b.chats, chatID)
	return nil
}

func (b *fakeBot) AnswerGameCallback(_, url string) error {
	b.urls = append(b.urls, url)
	return nil
}

func newRouter(bot *fakeBot, secret string) *gin.Engine {
	r := gin.New()
	svc := service.NewWebhookService(bot, "clicker", "", nil)
	NewWebhookHandler(svc, secret).RegisterRoutes(r)
	return r
}

func post(r *gin.Engine, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "http://game.example/tg/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_StartSendsGame(t *testing.T) {
	bot := &fakeBot{}
	r := newRouter(bot, "")

	rec := post(r, `{"update_id":1,"message":{"message_id":3,"date":0,"text":"/start","chat":{"id":99,"type":"private"}}}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{99}, bot.chats)
}

func TestWebhook_CallbackUsesRequestHost(t *testing.T) {
	bot := &fakeBot{}
	r := newRouter(bot, "")

	rec := post(r, `{"update_id":2,"callback_query":{"id":"cb","from":{"id":1,"is_bot":false,"first_name":"A"},"chat_instance":"x","game_short_name":"clicker","message":{"message_id":4,"date":0,"chat":{"id":99,"type":"private"}}}}`,
		map[string]string{"X-Forwarded-Proto": "https"})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, bot.urls, 1)
	assert.Equal(t, "https://game.example/?chat_id=99&message_id=4", bot.urls[0])
}

func TestWebhook_AlwaysOK(t *testing.T) {
	bot := &fakeBot{}
	r := newRouter(bot, "")

	assert.Equal(t, http.StatusOK, post(r, `not json`, nil).Code)
	assert.Equal(t, http.StatusOK, post(r, `{"update_id":3}`, nil).Code)
	assert.Empty(t, bot.chats)
	assert.Empty(t, bot.urls)
}

func TestWebhook_SecretToken(t *testing.T) {
	bot := &fakeBot{}
	r := newRouter(bot, "s3cret")
	body := `{"update_id":1,"message":{"message_id":3,"date":0,"text":"/play","chat":{"id":99,"type":"private"}}}`

	assert.Equal(t, http.StatusUnauthorized, post(r, body, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, post(r, body, map[string]string{SecretTokenHeader: "wrong"}).Code)
	assert.Empty(t, bot.chats)

	assert.Equal(t, http.StatusOK, post(r, body, map[string]string{SecretTokenHeader: "s3cret"}).Code)
	assert.Equal(t, []int64{99}, bot.chats)
}
