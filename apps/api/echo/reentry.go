package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/reentry"
)

type reentryApi struct {
	svc *reentry.Service
}

func registerReentryAPI(g *echo.Group, svc *reentry.Service) {
	api := reentryApi{svc: svc}
	g.GET("/reentry-dashboard", api.report)
}

type reentryResponse struct {
	Success bool `json:"success"`
	reentry.Report
}

func (api reentryApi) report(ctx echo.Context) error {
	var q reportQuery
	if err := q.Bind(ctx); err != nil {
		return err
	}

	rpt, err := api.svc.Report(ctx.Request().Context(), q.Scope, q.Key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reentryResponse{true, rpt})
}
