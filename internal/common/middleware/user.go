package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	apperrors "tapgame-backend/internal/common/errors"
	"tapgame-backend/internal/features/game/models"
)

const playerKey = "player"

type PlayerEnsurer interface {
	EnsurePlayer(ctx context.Context, user initdata.User) (*models.Player, error)
}

// EnsurePlayer creates or refreshes the player for the authenticated user and stores it under "player".
func EnsurePlayer(players PlayerEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			AbortWithError(c, apperrors.NewUnauthorizedError("init data required"))
			return
		}

		player, err := players.EnsurePlayer(c.Request.Context(), user)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(playerKey, player)
		c.Next()
	}
}

func GetPlayer(c *gin.Context) (*models.Player, bool) {
	v, exists := c.Get(playerKey)
	if !exists {
		return nil, false
	}
	player, ok := v.(*models.Player)
	return player, ok && player != nil
}
