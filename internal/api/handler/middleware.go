package handler

import (
	"context"
	"errors"
	"strings"

	"cheshired/internal/models"
	"cheshired/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthWallet ctxKey = "AUTH_WALLET"

func Authn(verifier interface {
	Validate(token string) (string, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			walletAddress, err := verifier.Validate(token)
			if err != nil {
				// although it's a client error, we don't want to leak detailed information
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthWallet, walletAddress)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// walletFromContext returns the authenticated wallet, if any. Unlike
// ResolveValidUser it never fails; anonymous requests get "".
func walletFromContext(ctx context.Context) string {
	walletAddress, _ := ctx.Value(ctxKeyAuthWallet).(string)
	return walletAddress
}

func ResolveValidUser(ctx context.Context, container *do.Injector) (*models.User, error) {
	walletAddress, ok := ctx.Value(ctxKeyAuthWallet).(string)
	if !ok || walletAddress == "" {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](container)
	if err != nil {
		return nil, err
	}

	return serviceUser.FindUserByWallet(ctx, walletAddress)
}
