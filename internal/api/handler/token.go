package handler

import (
	"errors"

	"cheshired/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupToken struct {
	container *do.Injector
}

func (gr *groupToken) GetTokenPrice(c echo.Context) error {
	servicePrice, err := do.Invoke[*services.ServicePrice](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	address := c.Param("address")

	price, err := servicePrice.GetTokenPrice(c.Request().Context(), address)
	if errors.Is(err, services.ErrUpstreamUnavailable) {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, price, nil)
}

func (gr *groupToken) GetTreasuryBalance(c echo.Context) error {
	treasury, err := do.Invoke[*services.TreasuryClient](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	ctx := c.Request().Context()

	wallet, err := serviceConfig.GetStringConfig(ctx, services.CONFIG_TREASURY_WALLET_ADDRESS, "")
	if err != nil || wallet == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("treasury wallet not configured"), errorx.Service))
	}

	balance, err := treasury.GetBalance(ctx, wallet)
	if errors.Is(err, services.ErrUpstreamUnavailable) {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, echo.Map{
		"wallet":   wallet,
		"lamports": balance,
	}, nil)
}
