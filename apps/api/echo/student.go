package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core/dashboard"
	"github.com/trezcool/tafakari/core/user"
)

type studentApi struct {
	svc        user.Service
	board      *dashboard.Board
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentAPI(g *echo.Group, deps ServerDeps) {
	api := studentApi{
		svc:        deps.UserSvc,
		board:      deps.Board,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.POST("", api.signup)
	sg.GET("/:id", api.retrieve)
	sg.GET("/:id/reflections", api.history)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	var filter user.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	filter.Role = user.RoleStudent

	students, err := api.svc.Query(ctx.Request().Context(), &filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) signup(ctx echo.Context) error {
	var data user.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	usr, err := api.getStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *studentApi) history(ctx echo.Context) error {
	usr, err := api.getStudent(ctx)
	if err != nil {
		return err
	}
	refls, err := api.board.StudentHistory(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting student history")
	}
	return ctx.JSON(http.StatusOK, refls)
}

func (api *studentApi) getStudent(ctx echo.Context) (user.User, error) {
	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errHttpNotFound
		}
		return user.User{}, errors.Wrap(err, "getting student")
	}
	if !usr.IsStudent() {
		return user.User{}, errHttpNotFound
	}
	return usr, nil
}
