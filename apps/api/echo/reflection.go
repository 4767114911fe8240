package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
)

type reflectionApi struct {
	svc      reflection.Service
	validate *validator.Validate
}

func registerReflectionAPI(g *echo.Group, deps ServerDeps) {
	api := reflectionApi{
		svc:      deps.ReflectionSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/reflections")
	rg.GET("", api.query)
	rg.POST("", api.submit)
	rg.GET("/:id", api.retrieve)
}

// Handlers

func (api *reflectionApi) query(ctx echo.Context) error {
	var filter reflection.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if since := ctx.QueryParam("since"); since != "" {
		if filter.Since = reflection.ParseDate(since); filter.Since.IsZero() {
			return core.NewValidationError(nil, core.FieldError{Field: "since", Error: "invalid date"})
		}
	}
	var ord Ordering
	ord.Bind(ctx)

	refls, err := api.svc.Query(ctx.Request().Context(), &filter, ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying reflections")
	}
	return ctx.JSON(http.StatusOK, refls)
}

func (api *reflectionApi) submit(ctx echo.Context) error {
	var data reflection.NewReflection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReflection")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	refl, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting reflection")
	}
	return ctx.JSON(http.StatusCreated, refl)
}

func (api *reflectionApi) retrieve(ctx echo.Context) error {
	refl, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == reflection.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting reflection")
	}
	return ctx.JSON(http.StatusOK, refl)
}
