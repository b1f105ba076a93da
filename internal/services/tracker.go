package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cheshired/internal/models"
)

// SolanaTrackerFeed is the concrete PriceFeed over the solanatracker
// market-data API.
type SolanaTrackerFeed struct {
	*ServiceHTTP
	baseURL string
	apiKey  string
}

func NewSolanaTrackerFeed(baseURL, apiKey string) (*SolanaTrackerFeed, error) {
	if baseURL == "" {
		baseURL = "https://data.solanatracker.io"
	}

	return &SolanaTrackerFeed{&ServiceHTTP{}, baseURL, apiKey}, nil
}

type trackerTokenResp struct {
	Pools []struct {
		Price struct {
			USD float64 `json:"usd"`
		} `json:"price"`
		MarketCap struct {
			USD float64 `json:"usd"`
		} `json:"marketCap"`
	} `json:"pools"`
}

func (feed *SolanaTrackerFeed) FetchPrice(ctx context.Context, tokenAddress string) (*models.TokenPrice, error) {
	header := http.Header{}
	if feed.apiKey != "" {
		header.Set("x-api-key", feed.apiKey)
	}

	resp, err := feed.httpClient(0).Get(
		fmt.Sprintf("%s/tokens/%s", feed.baseURL, url.PathEscape(tokenAddress)),
		header,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch price: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch price: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body trackerTokenResp
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode price: %v", ErrUpstreamUnavailable, err)
	}

	if len(body.Pools) == 0 {
		return nil, fmt.Errorf("%w: no pools for token %s", ErrUpstreamUnavailable, tokenAddress)
	}

	return &models.TokenPrice{
		Address:      tokenAddress,
		PriceUSD:     body.Pools[0].Price.USD,
		MarketCapUSD: body.Pools[0].MarketCap.USD,
		FetchedAt:    time.Now(),
	}, nil
}
