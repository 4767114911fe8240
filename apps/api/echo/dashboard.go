package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core/dashboard"
)

type dashboardApi struct {
	board *dashboard.Board
}

func registerDashboardAPI(g *echo.Group, deps ServerDeps) {
	api := dashboardApi{board: deps.Board}

	dg := g.Group("/dashboard")
	dg.GET("/stats", api.stats)
	dg.GET("/histogram", api.histogram)
	dg.GET("/action-required", api.actionRequired)
	dg.GET("/roster", api.roster)
}

func (api *dashboardApi) stats(ctx echo.Context) error {
	stats, err := api.board.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *dashboardApi) histogram(ctx echo.Context) error {
	buckets, err := api.board.Histogram(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing histogram")
	}
	return ctx.JSON(http.StatusOK, buckets)
}

func (api *dashboardApi) actionRequired(ctx echo.Context) error {
	items, err := api.board.ActionRequired(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing action-required list")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *dashboardApi) roster(ctx echo.Context) error {
	rows, err := api.board.Roster(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing roster")
	}
	return ctx.JSON(http.StatusOK, rows)
}
