package handler

import (
	"net/http"

	"charmtap/internal/services"

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
		return c.String(http.StatusOK, "💖")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		bot, err := do.Invoke[*services.Bot](cfg.Container)
		if err != nil {
			return nil, err
		}
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

		routesAPIv1Me := routesAPIv1.Group("/user/me")
		routesAPIv1Me.Use(Authn(bot))
		{
			m := groupUser{cfg.Container}
			routesAPIv1Me.GET("", m.Me)
		}

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		u := groupUser{cfg.Container}
		routesAPIv1.POST("/user/tap", u.Tap)
		routesAPIv1.GET("/user/rewards", u.GetRewards)
		routesAPIv1.POST("/user/reward/:id/claim", u.ClaimReward)

		ch := groupCharacter{cfg.Container}
		routesAPIv1.GET("/characters", ch.GetCharacters)
		routesAPIv1.GET("/character/:slug", ch.GetCharacter)

		m := groupChat{cfg.Container}
		routesAPIv1.GET("/chat/:character/history", m.GetHistory)
		routesAPIv1.POST("/chat/:character/message", m.SendMessage)

		w := groupWheel{cfg.Container}
		routesAPIv1.GET("/wheel", w.GetWheel)
		routesAPIv1.POST("/wheel/spin", w.Spin)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/overall", l.GetOverallLeaderboard)
	}

	return r, nil
}
