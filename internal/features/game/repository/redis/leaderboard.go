package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"tapgame-backend/internal/features/game/models"
	"tapgame-backend/internal/features/game/repository"
)

const (
	defaultKeyPrefix = "tapgame:leaderboard"
)

type leaderboardRepository struct {
	client   redis.Cmdable
	scoreKey string
	namesKey string
}

// NewLeaderboardRepository stores scores in a sorted set and display names in a hash next to it.
func NewLeaderboardRepository(client redis.Cmdable, keyPrefix string) repository.LeaderboardRepository {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &leaderboardRepository{
		client:   client,
		scoreKey: keyPrefix + ":tokens",
		namesKey: keyPrefix + ":names",
	}
}

func (r *leaderboardRepository) Record(ctx context.Context, player *models.Player, tokens int64) error {
	member := strconv.FormatInt(player.TgUserID, 10)

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, r.scoreKey, redis.Z{Score: float64(tokens), Member: member})
	pipe.HSet(ctx, r.namesKey, member, DisplayName(player))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record leaderboard score: %w", err)
	}
	return nil
}

func (r *leaderboardRepository) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		return []models.LeaderboardEntry{}, nil
	}

	scores, err := r.client.ZRevRangeWithScores(ctx, r.scoreKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	if len(scores) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	members := make([]string, len(scores))
	for i, z := range scores {
		members[i], _ = z.Member.(string)
	}

	names, err := r.client.HMGet(ctx, r.namesKey, members...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard names: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(scores))
	for i, z := range scores {
		id, err := strconv.ParseInt(members[i], 10, 64)
		if err != nil {
			continue
		}
		entry := models.LeaderboardEntry{
			Rank:     len(entries) + 1,
			TgUserID: id,
			Tokens:   int64(z.Score),
		}
		if i < len(names) {
			entry.Name, _ = names[i].(string)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DisplayName picks the public name of a player: @username, else first and last name.
func DisplayName(p *models.Player) string {
	if p.Username != "" {
		return "@" + p.Username
	}
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		name = "player " + strconv.FormatInt(p.TgUserID, 10)
	}
	return name
}
