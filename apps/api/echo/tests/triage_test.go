package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/tafakari/apps/api/echo"
	"github.com/trezcool/tafakari/core/guidance"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/triage"
)

func Test_triageApi_selection(t *testing.T) {
	app := newTestApp(t)

	app.run(t, []httpTest{
		{name: "idle", path: "/v1/triage", wantData: triage.State{GuidanceStatus: triage.StatusIdle}},
		{
			name: "missing student", method: http.MethodPut, path: "/v1/triage/selection",
			body:     SelectStudentRequest{},
			wantCode: http.StatusBadRequest, wantData: map[string]string{"student_id": "this field is required"},
		},
		{
			name: "unknown student", method: http.MethodPut, path: "/v1/triage/selection",
			body:     SelectStudentRequest{StudentID: "nope"},
			wantCode: http.StatusBadRequest, wantData: map[string]string{"student_id": "no student with this id"},
		},
		{
			name: "teacher", method: http.MethodPut, path: "/v1/triage/selection",
			body:     SelectStudentRequest{StudentID: "t1"},
			wantCode: http.StatusBadRequest, wantData: map[string]string{"student_id": "no student with this id"},
		},
		{
			name: "guidance without selection", method: http.MethodPost, path: "/v1/triage/guidance",
			wantCode: http.StatusBadRequest, wantData: httpErr{Error: "no student selected"},
		},
	})

	rec := app.do(t, http.MethodPut, "/v1/triage/selection", SelectStudentRequest{StudentID: "s2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view TriageView
	decode(t, rec, &view)
	assert.Equal(t, "s2", view.SelectedStudentID)
	require.NotNil(t, view.Student)
	assert.Equal(t, "Baraka Otieno", view.Student.Name)
	require.Len(t, view.History, 2)
	assert.Equal(t, "r2", view.History[0].ID)

	rec = app.do(t, http.MethodDelete, "/v1/triage/selection", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = TriageView{}
	decode(t, rec, &view)
	assert.Empty(t, view.SelectedStudentID)
	assert.Nil(t, view.Student)
}

func Test_triageApi_guidance(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPut, "/v1/triage/selection", SelectStudentRequest{StudentID: "s2"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/triage/guidance", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res triage.GuidanceResult
	decode(t, rec, &res)
	assert.Equal(t, triage.StatusResolved, res.Status)
	assert.True(t, res.Applied)
	assert.Contains(t, res.Guidance, "Baraka Otieno")
	assert.Contains(t, res.Guidance, "struggling")

	state := app.ctrl.State()
	assert.Equal(t, triage.StatusResolved, state.GuidanceStatus)
	assert.Equal(t, res.Guidance, state.Guidance)

	// students without reflections
	rec = app.do(t, http.MethodPut, "/v1/triage/selection", SelectStudentRequest{StudentID: "s4"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodPost, "/v1/triage/guidance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res = triage.GuidanceResult{}
	decode(t, rec, &res)
	assert.Equal(t, triage.StatusNoData, res.Status)
	assert.Equal(t, guidance.NoDataMessage, res.Guidance)
}

func Test_triageApi_guidance_clientGone(t *testing.T) {
	app := newTestApp(t, guidance.GeneratorFunc(func(ctx context.Context, name string, _ reflection.Reflection) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "advice for " + name, nil
	}))
	app.ctrl.SelectStudent("s2")

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	req, rec := newRequest(t, http.MethodPost, "/v1/triage/guidance", nil)
	app.server.ServeHTTP(rec, req.WithContext(reqCtx))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res triage.GuidanceResult
	decode(t, rec, &res)
	assert.Equal(t, triage.GuidanceResult{StudentID: "s2", Status: triage.StatusResolved, Guidance: "advice for Baraka Otieno", Applied: true}, res)
	assert.Equal(t, triage.StatusResolved, app.ctrl.State().GuidanceStatus)
}

func Test_triageApi_publishFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing selected", func(t *testing.T) {
		app := newTestApp(t)
		app.run(t, []httpTest{
			{
				name: "rejected", method: http.MethodPost, path: "/v1/triage/feedback",
				body:     map[string]string{"text": "hello"},
				wantData: PublishFeedbackResponse{Published: false},
			},
		})
	})

	t.Run("blank draft", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.do(t, http.MethodPut, "/v1/triage/selection", SelectStudentRequest{StudentID: "s2"}).Code)
		require.Equal(t, http.StatusOK, app.do(t, http.MethodPut, "/v1/triage/draft", DraftRequest{Text: "  \n "}).Code)

		rec := app.do(t, http.MethodPost, "/v1/triage/feedback", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"published": false}`, rec.Body.String())

		refl, err := app.reflRepo.GetReflection(ctx, "r2")
		require.NoError(t, err)
		assert.Nil(t, refl.TeacherFeedback)
		assert.Equal(t, "s2", app.ctrl.State().SelectedStudentID)
	})

	t.Run("older reflection", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.do(t, http.MethodPut, "/v1/triage/selection", SelectStudentRequest{StudentID: "s2"}).Code)

		rec := app.do(t, http.MethodPost, "/v1/triage/feedback", map[string]string{"reflection_id": "r3", "text": "late"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"published": false}`, rec.Body.String())
	})

	t.Run("draft is published", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.do(t, http.MethodPut, "/v1/triage/selection", SelectStudentRequest{StudentID: "s2"}).Code)

		rec := app.do(t, http.MethodPut, "/v1/triage/draft", DraftRequest{Text: "Let's pair on the worker pool tomorrow."})
		require.Equal(t, http.StatusOK, rec.Code)
		var state triage.State
		decode(t, rec, &state)
		assert.Equal(t, "Let's pair on the worker pool tomorrow.", state.DraftFeedback)

		rec = app.do(t, http.MethodPost, "/v1/triage/feedback", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"published": true}`, rec.Body.String())

		r2, err := app.reflRepo.GetReflection(ctx, "r2")
		require.NoError(t, err)
		require.NotNil(t, r2.TeacherFeedback)
		assert.Equal(t, "Let's pair on the worker pool tomorrow.", *r2.TeacherFeedback)

		r3, err := app.reflRepo.GetReflection(ctx, "r3")
		require.NoError(t, err)
		assert.Nil(t, r3.TeacherFeedback)

		assert.Equal(t, triage.State{GuidanceStatus: triage.StatusIdle}, app.ctrl.State())
		assert.Empty(t, app.mailSvc.SentMessages()) // s2 has no email
	})

	t.Run("explicit text notifies the student", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.do(t, http.MethodPut, "/v1/triage/selection", SelectStudentRequest{StudentID: "s1"}).Code)

		rec := app.do(t, http.MethodPost, "/v1/triage/feedback", map[string]string{"reflection_id": "r1", "text": "Brilliant work!"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"published": true}`, rec.Body.String())

		sent := app.mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "amani@example.com", sent[0].To[0].Address)
		assert.Contains(t, sent[0].TextContent, "Brilliant work!")
	})
}
