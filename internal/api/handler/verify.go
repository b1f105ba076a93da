package handler

import (
	"errors"
	"log"

	"cheshired/internal/interfaces"
	"cheshired/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupVerify struct {
	container *do.Injector
}

// Verify runs the verification gate for ?handle=. A post that fails to
// qualify is a regular 200 with verified=false; only transport problems
// surface as errors.
func (gr *groupVerify) Verify(c echo.Context) error {
	serviceVerification, err := do.Invoke[*services.ServiceVerification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	handle := c.QueryParam("accountHandle")
	if handle == "" {
		handle = c.QueryParam("handle")
	}

	verified, err := serviceVerification.Verify(c.Request().Context(), handle)
	if errors.Is(err, services.ErrVerificationFailed) {
		return httpx.RestAbort(c, echo.Map{
			"verified": false,
			"message":  err.Error(),
		}, nil)
	}
	if errors.Is(err, services.ErrUpstreamUnavailable) {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	// an authenticated wallet gets linked to the handle it just verified
	if wallet := walletFromContext(c.Request().Context()); wallet != "" {
		if serviceUser, err := do.Invoke[*services.ServiceUser](gr.container); err == nil {
			if err := serviceUser.MarkVerified(c.Request().Context(), wallet, handle); err != nil {
				log.Println("link verified handle:", err)
			}
		}
	}

	return httpx.RestAbort(c, echo.Map{
		"verified":        true,
		"postId":          verified.PostID,
		"points":          verified.PointsAwarded,
		"matchedTags":     verified.MatchedTags,
		"matchedMentions": verified.MatchedMentions,
	}, nil)
}

func (gr *groupVerify) GetPointRules(c echo.Context) error {
	servicePool, err := do.Invoke[*services.ServicePool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	ctx := c.Request().Context()

	rules, err := servicePool.ActiveRules(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	pool, err := servicePool.CurrentState(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, echo.Map{
		"rules":      rules,
		"pointValue": pool.PointValue,
		"totalPool":  pool.TotalAmount,
	}, nil)
}

func (gr *groupVerify) GetLatestPosts(c echo.Context) error {
	feed, err := do.Invoke[interfaces.SocialFeed](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	handle := c.Param("handle")
	ctx := c.Request().Context()

	lookback, _ := serviceConfig.GetIntConfig(ctx, services.CONFIG_VERIFY_LOOKBACK_POSTS, services.VERIFY_LOOKBACK_POSTS_DEFAULT)

	posts, err := feed.RecentPosts(ctx, handle, lookback)
	if errors.Is(err, services.ErrUpstreamUnavailable) {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, posts, nil)
}
