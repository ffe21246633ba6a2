package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "tapgame-backend/internal/common/errors"
	"tapgame-backend/internal/common/middleware"
	"tapgame-backend/internal/features/game/models"
	"tapgame-backend/internal/features/game/service"
)

type GameHandler struct {
	service service.GameService
}

func NewGameHandler(service service.GameService) *GameHandler {
	return &GameHandler{
		service: service,
	}
}

// RegisterRoutes expects router to already run InitDataAuth and EnsurePlayer.
func (h *GameHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/state", h.getState)
	router.POST("/tap", h.tap)
	router.POST("/buy", h.buy)
	router.POST("/daily", h.claimDaily)
	router.POST("/build", h.build)
	router.POST("/set-score", h.setScore)
	router.GET("/leaderboard", h.leaderboard)
}

// @Summary Get game state
// @Description Returns the player's state with energy brought up to date. Creates the player on first call.
// @Tags game
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.StateResponse
// @Failure 401 {object} models.ErrorResponse "Invalid init data"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /state [get]
func (h *GameHandler) getState(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}
	user, _ := middleware.GetUser(c)

	st, err := h.service.State(c.Request.Context(), player)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.StateResponse{
		OK:     true,
		Player: models.PlayerRef{ID: player.ID, Tg: user},
		State:  st,
	})
}

// @Summary Tap
// @Description Spends one energy per tap and credits tap_power tokens per tap. Batches are clamped to 1..50.
// @Tags game
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body models.TapRequest false "Tap batch"
// @Success 200 {object} models.MutationResponse
// @Failure 401 {object} models.ErrorResponse "Invalid init data"
// @Failure 422 {object} models.ErrorResponse "NO_ENERGY"
// @Router /tap [post]
func (h *GameHandler) tap(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	var req models.TapRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	taps := req.Taps
	if taps > service.MaxTaps {
		taps = service.MaxTaps
	}

	st, err := h.service.Tap(c.Request.Context(), player, int(taps))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.MutationResponse{OK: true, State: st})
}

// @Summary Buy upgrade
// @Tags game
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body models.BuyRequest true "Upgrade kind"
// @Success 200 {object} models.MutationResponse
// @Failure 400 {object} models.ErrorResponse "BAD_KIND"
// @Failure 422 {object} models.ErrorResponse "NOT_ENOUGH_TOKENS"
// @Router /buy [post]
func (h *GameHandler) buy(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	var req models.BuyRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	st, err := h.service.Buy(c.Request.Context(), player, req.Kind)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.MutationResponse{OK: true, State: st})
}

// @Summary Claim daily bonus
// @Description Credits 100 tokens once per UTC day.
// @Tags game
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.DailyResponse
// @Failure 409 {object} models.ErrorResponse "ALREADY_CLAIMED"
// @Router /daily [post]
func (h *GameHandler) claimDaily(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	reward, st, err := h.service.ClaimDaily(c.Request.Context(), player)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.DailyResponse{OK: true, Reward: reward, State: st})
}

// @Summary Build in city
// @Tags game
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body models.BuildRequest true "Building"
// @Success 200 {object} models.MutationResponse
// @Failure 400 {object} models.ErrorResponse "BAD_BUILDING"
// @Failure 422 {object} models.ErrorResponse "NOT_ENOUGH_TOKENS"
// @Router /build [post]
func (h *GameHandler) build(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	var req models.BuildRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	st, err := h.service.Build(c.Request.Context(), player, req.Building)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.MutationResponse{OK: true, State: st})
}

// @Summary Relay game score
// @Description Forwards the score to the Telegram game message with setGameScore.
// @Tags game
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body models.SetScoreRequest true "Score and target message"
// @Success 200 {object} models.ScoreResponse
// @Failure 400 {object} models.ErrorResponse "Missing target message"
// @Failure 502 {object} models.ErrorResponse "Bot API failure"
// @Router /set-score [post]
func (h *GameHandler) setScore(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	var req models.SetScoreRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.service.SetScore(c.Request.Context(), player, service.ScoreRequest{
		Score:           req.Score,
		ChatID:          req.ChatID,
		MessageID:       req.MessageID,
		InlineMessageID: req.InlineMessageID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.ScoreResponse{OK: true, Result: result})
}

// @Summary Leaderboard
// @Tags game
// @Produce json
// @Security TelegramInitData
// @Param limit query int false "Entries to return (1-100)" default(10)
// @Success 200 {object} models.LeaderboardResponse
// @Failure 400 {object} models.ErrorResponse "Invalid limit"
// @Router /leaderboard [get]
func (h *GameHandler) leaderboard(c *gin.Context) {
	limit := service.DefaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			_ = c.Error(apperrors.New(apperrors.ErrCodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.LeaderboardResponse{OK: true, Leaderboard: entries})
}

func currentPlayer(c *gin.Context) (*models.Player, bool) {
	player, ok := middleware.GetPlayer(c)
	if !ok {
		_ = c.Error(apperrors.NewUnauthorizedError("init data required"))
		return nil, false
	}
	return player, true
}

// bindOptionalJSON binds the cached body. An empty body leaves req at its zero value.
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindBodyWith(req, binding.JSON)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
	return false
}
