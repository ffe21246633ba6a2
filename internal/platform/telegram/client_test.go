package telegram

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123:abc"

type fakeBotAPI struct {
	mu    sync.Mutex
	calls map[string]url.Values
	fail  map[string]string
}

func newFakeBotAPI(t *testing.T) (*fakeBotAPI, *httptest.Server) {
	t.Helper()
	f := &fakeBotAPI{calls: map[string]url.Values{}, fail: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBotAPI) serve(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	_ = r.ParseForm()

	f.mu.Lock()
	f.calls[method] = r.PostForm
	desc, failing := f.fail[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"` + desc + `"}`))
		return
	}

	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Game","username":"game_bot"}}`))
	case "sendGame":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":10,"date":0,"chat":{"id":5,"type":"private"}}}`))
	case "setGameScore":
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}
}

func (f *fakeBotAPI) call(method string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClientWithEndpoint(testToken, srv.URL+"/bot%s/%s", srv.Client(), false)
	require.NoError(t, err)
	return c
}

func TestNewClient_ChecksToken(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	c := newTestClient(t, srv)
	assert.Equal(t, "game_bot", c.Username())

	f.fail["getMe"] = "Unauthorized"
	_, err := NewClientWithEndpoint(testToken, srv.URL+"/bot%s/%s", srv.Client(), false)
	assert.Error(t, err)
}

func TestSendGame(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	c := newTestClient(t, srv)

	require.NoError(t, c.SendGame(5, "clicker"))

	form := f.call("sendGame")
	assert.Equal(t, "5", form.Get("chat_id"))
	assert.Equal(t, "clicker", form.Get("game_short_name"))
}

func TestAnswerGameCallback(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	c := newTestClient(t, srv)

	require.NoError(t, c.AnswerGameCallback("cb-1", "https://game.example/?chat_id=5"))

	form := f.call("answerCallbackQuery")
	assert.Equal(t, "cb-1", form.Get("callback_query_id"))
	assert.Equal(t, "https://game.example/?chat_id=5", form.Get("url"))
}

func TestSetGameScore_ChatMessage(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	c := newTestClient(t, srv)

	result, err := c.SetGameScore(GameScore{UserID: 42, Score: 900, ChatID: 5, MessageID: 10})
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(result))

	form := f.call("setGameScore")
	assert.Equal(t, "42", form.Get("user_id"))
	assert.Equal(t, "900", form.Get("score"))
	assert.Equal(t, "true", form.Get("force"))
	assert.Equal(t, "5", form.Get("chat_id"))
	assert.Equal(t, "10", form.Get("message_id"))
	assert.Empty(t, form.Get("inline_message_id"))
}

func TestSetGameScore_InlineMessage(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	c := newTestClient(t, srv)

	_, err := c.SetGameScore(GameScore{UserID: 42, Score: 1, ChatID: 5, InlineMessageID: "inline-1"})
	require.NoError(t, err)

	form := f.call("setGameScore")
	assert.Equal(t, "inline-1", form.Get("inline_message_id"))
	assert.Empty(t, form.Get("chat_id"))
}

func TestSetGameScore_APIError(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	c := newTestClient(t, srv)
	f.fail["setGameScore"] = "Bad Request: BOT_SCORE_NOT_MODIFIED"

	_, err := c.SetGameScore(GameScore{UserID: 42, Score: 1, ChatID: 5, MessageID: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_SCORE_NOT_MODIFIED")
}

func TestSetWebhook(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	c := newTestClient(t, srv)

	require.NoError(t, c.SetWebhook("https://game.example/tg/webhook", "s3cret"))

	form := f.call("setWebhook")
	assert.Equal(t, "https://game.example/tg/webhook", form.Get("url"))
	assert.Equal(t, "s3cret", form.Get("secret_token"))
	assert.Equal(t, `["message","callback_query"]`, form.Get("allowed_updates"))

	require.NoError(t, c.SetWebhook("https://game.example/tg/webhook", ""))
	assert.Empty(t, f.call("setWebhook").Get("secret_token"))
}

func TestDeleteWebhook(t *testing.T) {
	f, srv := newFakeBotAPI(t)
	c := newTestClient(t, srv)

	require.NoError(t, c.DeleteWebhook())
	assert.NotNil(t, f.call("deleteWebhook"))
}
