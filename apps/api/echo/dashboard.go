package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/dashboard"
)

type dashboardApi struct {
	svc      *dashboard.Service
	validate *validator.Validate
}

func registerDashboardAPI(g *echo.Group, svc *dashboard.Service, validate *validator.Validate) {
	api := dashboardApi{svc: svc, validate: validate}

	dg := g.Group("/dashboard")
	dg.GET("/stats", api.stats)
	dg.GET("/user-stats", api.userStats)
}

type statsResponse struct {
	Success bool `json:"success"`
	dashboard.Stats
}

func (api dashboardApi) stats(ctx echo.Context) error {
	var q reportQuery
	if err := q.Bind(ctx); err != nil {
		return err
	}

	st := api.svc.Stats(ctx.Request().Context(), q.Key)
	return ctx.JSON(http.StatusOK, statsResponse{true, st})
}

type (
	userStatsInput struct {
		UserID   int    `json:"userId" validate:"required"`
		Role     string `json:"role" validate:"required"`
		EntityID int    `json:"entityId"`
	}

	userStatsResponse struct {
		Success bool `json:"success"`
		dashboard.UserStats
	}
)

func (api dashboardApi) userStats(ctx echo.Context) error {
	var q reportQuery
	if err := q.Bind(ctx); err != nil {
		return err
	}

	params := ctx.QueryParams()
	in := userStatsInput{Role: core.CleanString(params.Get("role"), true)}
	var err error
	if in.UserID, err = intParam(params, "userId"); err != nil {
		return err
	}
	if in.EntityID, err = intParam(params, "entityId"); err != nil {
		return err
	}
	if err = api.validate.Struct(in); err != nil {
		return err
	}

	st, err := api.svc.UserStats(ctx.Request().Context(), in.UserID, in.Role, in.EntityID, q.Key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, userStatsResponse{true, st})
}
