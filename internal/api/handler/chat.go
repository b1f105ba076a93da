package handler

import (
	"strconv"

	"cheshired/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupChat struct {
	container *do.Injector
}

type chatRequest struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

func (gr *groupChat) SaveExchange(c echo.Context) error {
	serviceChat, err := do.Invoke[*services.ServiceChat](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context(), gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	chat, err := serviceChat.SaveExchange(c.Request().Context(), user.WalletAddress, req.Message, req.Response)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, chat, nil)
}

func (gr *groupChat) GetHistory(c echo.Context) error {
	serviceChat, err := do.Invoke[*services.ServiceChat](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err := ResolveValidUser(c.Request().Context(), gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	history, err := serviceChat.History(c.Request().Context(), user.WalletAddress, limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, history, nil)
}
