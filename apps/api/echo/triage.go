package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/dashboard"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/triage"
	"github.com/trezcool/tafakari/core/user"
)

// TriageView is the triage state enriched with the selected student & their history.
type TriageView struct {
	triage.State
	Student *user.User              `json:"student,omitempty"`
	History []reflection.Reflection `json:"history,omitempty"`
}

type triageApi struct {
	ctrl     *triage.Controller
	usrSvc   user.Service
	board    *dashboard.Board
	validate *validator.Validate
	logger   core.Logger
}

func registerTriageAPI(g *echo.Group, deps ServerDeps) {
	api := triageApi{
		ctrl:     deps.Triage,
		usrSvc:   deps.UserSvc,
		board:    deps.Board,
		validate: deps.Validate,
		logger:   deps.Logger,
	}

	tg := g.Group("/triage")
	tg.GET("", api.view)
	tg.PUT("/selection", api.selectStudent)
	tg.DELETE("/selection", api.deselectStudent)
	tg.PUT("/draft", api.setDraft)
	tg.POST("/guidance", api.requestGuidance)
	tg.POST("/feedback", api.publishFeedback)
}

// Handlers

func (api *triageApi) view(ctx echo.Context) error {
	view, err := api.buildView(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *triageApi) selectStudent(ctx echo.Context) error {
	var data SelectStudentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectStudentRequest")
	}
	data.StudentID = core.CleanString(data.StudentID)
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	usr, err := api.usrSvc.GetByID(ctx.Request().Context(), data.StudentID)
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return errors.Wrap(err, "getting student")
	}
	if err != nil || !usr.IsStudent() {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: errNotAStudentMsg})
	}

	api.ctrl.SelectStudent(usr.ID)
	return api.view(ctx)
}

func (api *triageApi) deselectStudent(ctx echo.Context) error {
	api.ctrl.DeselectStudent()
	return api.view(ctx)
}

func (api *triageApi) setDraft(ctx echo.Context) error {
	var data DraftRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DraftRequest")
	}
	api.ctrl.SetDraft(data.Text)
	return ctx.JSON(http.StatusOK, api.ctrl.State())
}

func (api *triageApi) requestGuidance(ctx echo.Context) error {
	selected := api.ctrl.State().SelectedStudentID
	if selected == "" {
		return errNoSelection
	}
	// a client hanging up must not abort the generator
	res, err := api.ctrl.RequestGuidance(context.WithoutCancel(ctx.Request().Context()), selected)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "requesting guidance")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *triageApi) publishFeedback(ctx echo.Context) error {
	var data PublishFeedbackRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PublishFeedbackRequest")
	}

	reqCtx := ctx.Request().Context()
	var reflectionID string
	if data.ReflectionID != nil {
		reflectionID = *data.ReflectionID
	} else {
		latest, ok, err := api.ctrl.LatestReflection(reqCtx)
		if err != nil {
			return errors.Wrap(err, "getting latest reflection")
		}
		if ok {
			reflectionID = latest.ID
		}
	}
	text := api.ctrl.State().DraftFeedback
	if data.Text != nil {
		text = *data.Text
	}

	published, err := api.ctrl.PublishFeedback(reqCtx, reflectionID, text)
	if err != nil {
		return errors.Wrap(err, "publishing feedback")
	}
	return ctx.JSON(http.StatusOK, PublishFeedbackResponse{Published: published})
}

func (api *triageApi) buildView(ctx echo.Context) (TriageView, error) {
	view := TriageView{State: api.ctrl.State()}
	if view.SelectedStudentID == "" {
		return view, nil
	}

	reqCtx := ctx.Request().Context()
	usr, err := api.usrSvc.GetByID(reqCtx, view.SelectedStudentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			api.logger.Warn("selected student " + view.SelectedStudentID + " no longer exists")
			return view, nil
		}
		return TriageView{}, errors.Wrap(err, "getting selected student")
	}
	view.Student = &usr

	view.History, err = api.board.StudentHistory(reqCtx, usr.ID)
	if err != nil {
		return TriageView{}, errors.Wrap(err, "getting student history")
	}
	return view, nil
}
