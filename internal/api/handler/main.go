package handler

import (
	"net/http"

	"cheshired/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "😼")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)

		v := groupVerify{cfg.Container}
		routesAPIv1.GET("/verify", v.Verify)
		routesAPIv1.GET("/point-rules", v.GetPointRules)
		routesAPIv1.GET("/latest-posts/:handle", v.GetLatestPosts)

		p := groupPayout{cfg.Container}
		routesAPIv1.POST("/payout", p.IssuePayout)
		routesAPIv1.GET("/payout-stats", p.GetStats)
		routesAPIv1.GET("/payouts/:wallet", p.GetHistory)

		t := groupToken{cfg.Container}
		routesAPIv1.GET("/token-price/:address", t.GetTokenPrice)
		routesAPIv1.GET("/treasury-balance", t.GetTreasuryBalance)

		u := groupUser{cfg.Container}
		routesAPIv1.POST("/connect", u.Connect)

		routesAPIv1Chats := routesAPIv1.Group("/chats")
		{
			ch := groupChat{cfg.Container}
			routesAPIv1Chats.POST("", ch.SaveExchange)
			routesAPIv1Chats.GET("", ch.GetHistory)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
