package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/tvet"
)

type tvetApi struct {
	svc *tvet.Service
}

func registerTVETAPI(g *echo.Group, svc *tvet.Service) {
	api := tvetApi{svc: svc}

	tg := g.Group("/tvet-dashboard")
	tg.GET("", api.report)
	tg.GET("/hierarchy", api.hierarchy)
}

type tvetResponse struct {
	Success bool `json:"success"`
	tvet.Report
}

func (api tvetApi) report(ctx echo.Context) error {
	var q reportQuery
	if err := q.Bind(ctx); err != nil {
		return err
	}

	rpt, err := api.svc.Report(ctx.Request().Context(), q.Scope, q.Key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tvetResponse{true, rpt})
}

func (api tvetApi) hierarchy(ctx echo.Context) error {
	var q reportQuery
	if err := q.Bind(ctx); err != nil {
		return err
	}

	regions, periodLabel, err := api.svc.Hierarchy(ctx.Request().Context(), q.Key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"period":  periodLabel,
		"regions": regions,
	})
}
