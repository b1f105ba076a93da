package handler

import (
	"errors"

	"cheshired/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupUser struct {
	container *do.Injector
}

type connectRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// Connect registers a wallet and returns a session token for the chat
// endpoints.
func (gr *groupUser) Connect(c echo.Context) error {
	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	authentication, err := do.Invoke[*services.Authentication](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var req connectRequest
	if err := c.Bind(&req); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	user, err := serviceUser.ConnectWallet(c.Request().Context(), req.WalletAddress)
	if errors.Is(err, services.ErrInvalidAddress) {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	token, err := authentication.CreateToken(user)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, echo.Map{
		"user":  user,
		"token": token,
	}, nil)
}
