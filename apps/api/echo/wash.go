package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/wash"
)

type washApi struct {
	svc *wash.Service
}

func registerWashAPI(g *echo.Group, svc *wash.Service) {
	api := washApi{svc: svc}
	g.GET("/wash-dashboard", api.report)
}

type washResponse struct {
	Success bool `json:"success"`
	wash.Report
}

func (api washApi) report(ctx echo.Context) error {
	var q reportQuery
	if err := q.Bind(ctx); err != nil {
		return err
	}

	rpt, err := api.svc.Report(ctx.Request().Context(), q.Scope, q.Key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, washResponse{true, rpt})
}
