package handler

import (
	"errors"
	"net/http"

	"cheshired/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupPayout struct {
	container *do.Injector
}

type payoutRequest struct {
	PostID           string `json:"postId"`
	RecipientAddress string `json:"recipientAddress"`
}

// IssuePayout pays out a previously verified post. Pool exhaustion is a 409
// so the dashboard can tell "come back later" apart from "bad request".
func (gr *groupPayout) IssuePayout(c echo.Context) error {
	servicePayout, err := do.Invoke[*services.ServicePayout](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceVerification, err := do.Invoke[*services.ServiceVerification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var req payoutRequest
	if err := c.Bind(&req); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if req.PostID == "" || req.RecipientAddress == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("postId and recipientAddress are required"), errorx.Invalid))
	}

	ctx := c.Request().Context()

	verified, err := serviceVerification.FindVerifiedPost(ctx, req.PostID)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("post has not been verified"), errorx.NotExist))
	}

	record, err := servicePayout.IssuePayout(ctx, verified, req.RecipientAddress)
	switch {
	case errors.Is(err, services.ErrPoolExhausted):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "PoolExhausted",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrAlreadyPaid):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "AlreadyPaid",
			"message": err.Error(),
			"record":  record,
		})
	case errors.Is(err, services.ErrInvalidAddress), errors.Is(err, services.ErrNothingToPay):
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	case errors.Is(err, services.ErrPayoutLocked):
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
	case err != nil:
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, record, nil)
}

func (gr *groupPayout) GetStats(c echo.Context) error {
	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	stats, err := serviceStats.GetStats(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, stats, nil)
}

func (gr *groupPayout) GetHistory(c echo.Context) error {
	servicePayout, err := do.Invoke[*services.ServicePayout](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	wallet := c.Param("wallet")

	records, err := servicePayout.History(c.Request().Context(), wallet)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, records, nil)
}
