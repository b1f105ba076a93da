package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// user-facing failures; handlers map these onto HTTP statuses
var (
	ErrVerificationFailed  = errors.New("no qualifying post found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInsufficientPool    = errors.New("insufficient pool balance")
	ErrPoolExhausted       = errors.New("rewards temporarily unavailable")
	ErrNothingToPay        = errors.New("nothing to pay")
	ErrAlreadyPaid         = errors.New("post already paid out")
	ErrInvalidAddress      = errors.New("invalid wallet address")
	ErrPayoutLocked        = errors.New("payout locked")
)

const (
	CONFIG_SERVER_MODE               = "SERVER_MODE"
	CONFIG_VERIFY_RATE_PER_MINUTE    = "VERIFY_RATE_PER_MINUTE"
	CONFIG_VERIFY_LOOKBACK_POSTS     = "VERIFY_LOOKBACK_POSTS"
	CONFIG_ADMIN_CHAT_ID             = "ADMIN_CHAT_ID"
	CONFIG_TRACKED_TOKEN_ADDRESS     = "TRACKED_TOKEN_ADDRESS"
	CONFIG_TREASURY_WALLET_ADDRESS   = "TREASURY_WALLET_ADDRESS"
	CONFIG_PAYOUT_HISTORY_PAGE_LIMIT = "PAYOUT_HISTORY_PAGE_LIMIT"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_PRODUCTION  = "production"

	VERIFY_RATE_LIMIT_PER_MINUTE_DEFAULT = 6
	VERIFY_LOOKBACK_POSTS_DEFAULT        = 5
	PAYOUT_HISTORY_PAGE_LIMIT_DEFAULT    = 50

	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_15_MINS    = 15 * time.Minute

	TWITTER_API_BASE_URL = "https://api.twitter.com/2"

	SOLANA_ADDRESS_LENGTH = 32
	LAMPORTS_PER_SOL      = 1_000_000_000
)

func LockKeyPayout(postID string) string {
	return fmt.Sprintf("lock:payout:%s", postID)
}

// db
func DBKeyActiveRules() string {
	return "point_rules:active"
}

func DBKeyRewardPool() string {
	return "reward_pool:state"
}

func DBKeyPayoutStats() string {
	return "payout:stats"
}

func DBKeyVerifiedPost(postID string) string {
	return fmt.Sprintf("verified_post:%s", postID)
}

func DBKeyUserByWallet(walletAddress string) string {
	return fmt.Sprintf("user:wallet:%s", walletAddress)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func LimitKeyVerifyHandle(handle string) string {
	return fmt.Sprintf("verify:handle:%s", strings.ToLower(handle))
}
