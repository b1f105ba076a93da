package redis_store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cheshired/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TOKEN_PRICE_TTL  = 5 * time.Minute
	RECENT_POSTS_TTL = 2 * time.Minute
)

func dbKeyTokenPrice(tokenAddress string) string {
	return fmt.Sprintf("token_price:%s", tokenAddress)
}

func dbKeyRecentPosts(handle string) string {
	return fmt.Sprintf("social:recent_posts:%s", strings.ToLower(handle))
}

func SetTokenPrice(ctx context.Context, cmd redis.Cmdable, price *models.TokenPrice) error {
	b, err := msgpack.Marshal(price)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyTokenPrice(price.Address), b, TOKEN_PRICE_TTL).Err()
}

func GetTokenPrice(ctx context.Context, cmd redis.Cmdable, tokenAddress string) (*models.TokenPrice, error) {
	b, err := cmd.Get(ctx, dbKeyTokenPrice(tokenAddress)).Bytes()
	if err != nil {
		return nil, err
	}

	var price models.TokenPrice
	err = msgpack.Unmarshal(b, &price)
	if err != nil {
		return nil, err
	}

	return &price, nil
}

// SetRecentPosts keeps a short-lived snapshot of a handle's feed so repeated
// verify clicks don't burn the upstream API quota.
func SetRecentPosts(ctx context.Context, cmd redis.Cmdable, handle string, posts []models.SocialPost) error {
	b, err := msgpack.Marshal(posts)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyRecentPosts(handle), b, RECENT_POSTS_TTL).Err()
}

func GetRecentPosts(ctx context.Context, cmd redis.Cmdable, handle string) ([]models.SocialPost, error) {
	b, err := cmd.Get(ctx, dbKeyRecentPosts(handle)).Bytes()
	if err != nil {
		return nil, err
	}

	var posts []models.SocialPost
	err = msgpack.Unmarshal(b, &posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}
