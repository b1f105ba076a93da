package interfaces

import (
	"context"

	"cheshired/internal/models"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	AllowUser(ctx context.Context, key string, limit redis_rate.Limit) error
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// SocialFeed fetches the most recent posts of a handle, newest first. The
// concrete upstream vendor is swappable; services only see this interface.
type SocialFeed interface {
	RecentPosts(ctx context.Context, handle string, limit int) ([]models.SocialPost, error)
}

// TransferClient asks the external treasury collaborator to move base units
// to a recipient. It returns an opaque transaction reference on success.
// Signing and chain submission happen on the collaborator's side.
type TransferClient interface {
	SendTransfer(ctx context.Context, recipient string, amount int64) (string, error)
}

// PriceFeed fetches a token price snapshot from the upstream market-data API.
type PriceFeed interface {
	FetchPrice(ctx context.Context, tokenAddress string) (*models.TokenPrice, error)
}
