package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/rtp"
)

type rtpApi struct {
	svc *rtp.Service
}

func registerRTPAPI(g *echo.Group, svc *rtp.Service) {
	api := rtpApi{svc: svc}

	rg := g.Group("/rtp")
	rg.GET("/analytics", api.analytics)
	rg.GET("/itineraries", api.itineraries)
}

type analyticsResponse struct {
	Success bool `json:"success"`
	rtp.Analytics
}

func (api rtpApi) analytics(ctx echo.Context) error {
	q, err := analyticsQuery(ctx)
	if err != nil {
		return err
	}

	a, err := api.svc.Analytics(ctx.Request().Context(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, analyticsResponse{true, a})
}

func (api rtpApi) itineraries(ctx echo.Context) error {
	its := api.svc.Itineraries(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "itineraries": its})
}
