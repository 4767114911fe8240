package triage

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/dashboard"
	"github.com/trezcool/tafakari/core/guidance"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
)

// RecordStore supplies the snapshot and applies teacher feedback.
type RecordStore interface {
	dashboard.Source
	// ApplyReflectionUpdate returns reflection.ErrNotFound for unknown ids.
	ApplyReflectionUpdate(ctx context.Context, id string, upd reflection.Update) error
}

// Status of the guidance fetch for the selected student.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusResolved Status = "resolved"
	StatusNoData   Status = "no-data"
)

// State is a read-only snapshot of the controller.
type State struct {
	SelectedStudentID string `json:"selected_student_id,omitempty"`
	GuidanceStatus    Status `json:"guidance_status"`
	Guidance          string `json:"guidance,omitempty"`
	DraftFeedback     string `json:"draft_feedback"`
}

// GuidanceResult is the outcome of one RequestGuidance call.
// Applied is false when the selection changed while the generator was running.
type GuidanceResult struct {
	StudentID string `json:"student_id"`
	Status    Status `json:"status"`
	Guidance  string `json:"guidance,omitempty"`
	Applied   bool   `json:"applied"`
}

// Controller holds the teacher's triage session: the selected student, the fetched guidance and the drafted feedback.
// Selection changes apply immediately; a guidance result is only applied if nothing changed since it was requested.
type Controller struct {
	store   RecordStore
	gen     guidance.Generator
	mailSvc core.EmailService
	logger  core.Logger

	mu       sync.Mutex
	selected string
	status   Status
	guidance string
	draft    string
	epoch    uint64 // bumped on every selection change
	lastReq  uint64
	draftRev uint64 // bumped on every draft edit
}

// NewController returns a Controller. mailSvc may be nil to disable feedback notifications.
func NewController(store RecordStore, gen guidance.Generator, mailSvc core.EmailService, logger core.Logger) *Controller {
	return &Controller{
		store:   store,
		gen:     gen,
		mailSvc: mailSvc,
		logger:  logger,
		status:  StatusIdle,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		SelectedStudentID: c.selected,
		GuidanceStatus:    c.status,
		Guidance:          c.guidance,
		DraftFeedback:     c.draft,
	}
}

// SelectStudent selects id and clears any fetched guidance and drafted feedback.
func (c *Controller) SelectStudent(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
	c.draft = ""
	c.draftRev++
	c.resetGuidance()
}

// DeselectStudent clears the selection and any fetched guidance.
func (c *Controller) DeselectStudent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
	c.resetGuidance()
}

func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
	c.draftRev++
}

// must hold c.mu
func (c *Controller) resetGuidance() {
	c.epoch++
	c.status = StatusIdle
	c.guidance = ""
}

// LatestReflection returns the selected student's most recent reflection.
func (c *Controller) LatestReflection(ctx context.Context) (reflection.Reflection, bool, error) {
	latest, _, ok, err := c.latestReflection(ctx)
	return latest, ok, err
}

// latestReflection also returns the revision of the selection & draft it was computed for.
func (c *Controller) latestReflection(ctx context.Context) (reflection.Reflection, revision, bool, error) {
	c.mu.Lock()
	selected, rev := c.selected, revision{epoch: c.epoch, draft: c.draftRev}
	c.mu.Unlock()
	if selected == "" {
		return reflection.Reflection{}, rev, false, nil
	}
	refls, err := c.store.GetReflections(ctx)
	if err != nil {
		return reflection.Reflection{}, rev, false, errors.Wrap(err, "getting reflections")
	}
	latest, ok := dashboard.Latest(selected, refls)
	return latest, rev, ok, nil
}

type revision struct {
	epoch uint64
	draft uint64
}

// RequestGuidance fetches guidance for studentID from its most recent reflection.
// Students without reflections get guidance.NoDataMessage and the generator is not called.
// The call blocks on the generator without holding the controller, so selection changes stay immediate.
// Generator failures degrade to an idle, empty result; errors are only returned for snapshot failures
// or unknown students.
func (c *Controller) RequestGuidance(ctx context.Context, studentID string) (GuidanceResult, error) {
	student, err := c.findStudent(ctx, studentID)
	if err != nil {
		return GuidanceResult{}, err
	}
	refls, err := c.store.GetReflections(ctx)
	if err != nil {
		return GuidanceResult{}, errors.Wrap(err, "getting reflections")
	}

	latest, ok := dashboard.Latest(student.ID, refls)
	if !ok {
		res := GuidanceResult{StudentID: student.ID, Status: StatusNoData, Guidance: guidance.NoDataMessage}
		c.mu.Lock()
		if c.selected == student.ID {
			c.status = StatusNoData
			c.guidance = guidance.NoDataMessage
			res.Applied = true
		}
		c.mu.Unlock()
		return res, nil
	}

	c.mu.Lock()
	c.lastReq++
	req, epoch := c.lastReq, c.epoch
	if c.selected == student.ID {
		c.status = StatusFetching
		c.guidance = ""
	}
	c.mu.Unlock()

	text, genErr := c.generate(ctx, student.Name, latest)
	if genErr != nil {
		c.logger.Warn(fmt.Sprintf("guidance for student %s unavailable: %v", student.ID, genErr), genErr)
	}

	res := GuidanceResult{StudentID: student.ID, Status: StatusResolved, Guidance: text}
	if genErr != nil {
		res.Status, res.Guidance = StatusIdle, ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == student.ID && c.epoch == epoch && c.lastReq == req {
		c.status, c.guidance = res.Status, res.Guidance
		res.Applied = true
	} else {
		c.logger.Debug(fmt.Sprintf("discarding stale guidance for student %s", student.ID))
	}
	return res, nil
}

func (c *Controller) generate(ctx context.Context, name string, latest reflection.Reflection) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(fmt.Errorf("%v", r), "guidance generator panicked")
		}
	}()
	text, err = c.gen.Generate(ctx, name, latest)
	if err == nil && strings.TrimSpace(text) == "" {
		err = guidance.ErrUnavailable
	}
	return text, err
}

// PublishFeedback attaches text to reflectionID, which must be the selected student's most recent reflection.
// Blank text, an empty or unknown id, or no selection make it a no-op returning false.
// On success the selection and the guidance are cleared, and so is the draft, unless the teacher
// changed them while the feedback was being stored.
func (c *Controller) PublishFeedback(ctx context.Context, reflectionID, text string) (bool, error) {
	reflectionID = core.CleanString(reflectionID)
	if strings.TrimSpace(text) == "" || reflectionID == "" {
		c.logger.Info("feedback not published: empty text or reflection id")
		return false, nil
	}

	latest, rev, ok, err := c.latestReflection(ctx)
	if err != nil {
		return false, err
	}
	if !ok || latest.ID != reflectionID {
		c.logger.Info(fmt.Sprintf("feedback not published: %q is not the selected student's latest reflection", reflectionID))
		return false, nil
	}

	if err := c.store.ApplyReflectionUpdate(ctx, reflectionID, reflection.Update{TeacherFeedback: &text}); err != nil {
		if errors.Cause(err) == reflection.ErrNotFound {
			c.logger.Warn(fmt.Sprintf("feedback not published: reflection %s not found", reflectionID))
			return false, nil
		}
		return false, errors.Wrap(err, "applying reflection update")
	}

	c.mu.Lock()
	if c.epoch == rev.epoch {
		if c.draftRev == rev.draft {
			c.draft = ""
		}
		c.selected = ""
		c.resetGuidance()
	} else {
		c.logger.Debug(fmt.Sprintf("selection changed while publishing to %s; keeping it", reflectionID))
	}
	c.mu.Unlock()

	c.notify(ctx, latest, text)
	return true, nil
}

// PublishDraft publishes the drafted feedback to the selected student's most recent reflection.
func (c *Controller) PublishDraft(ctx context.Context) (bool, error) {
	latest, ok, err := c.LatestReflection(ctx)
	if err != nil || !ok {
		return false, err
	}
	return c.PublishFeedback(ctx, latest.ID, c.State().DraftFeedback)
}

func (c *Controller) findStudent(ctx context.Context, studentID string) (user.User, error) {
	users, err := c.store.GetUsers(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting users")
	}
	for _, usr := range users {
		if usr.ID == studentID && usr.IsStudent() {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

// notify emails the student about new feedback, when an address is known.
func (c *Controller) notify(ctx context.Context, refl reflection.Reflection, feedback string) {
	if c.mailSvc == nil {
		return
	}
	student, err := c.findStudent(ctx, refl.StudentID)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("feedback notification: %v", err), err)
		return
	}
	if student.Email == "" {
		return
	}

	date := "an unknown day"
	if !refl.Date.IsZero() {
		date = refl.Date.Format("Mon, Jan 2 2006")
	}
	c.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:      "New feedback on your reflection",
		TemplateName: "feedback_published",
		TemplateData: map[string]interface{}{
			"StudentName":    student.Name,
			"ReflectionDate": date,
			"Feedback":       feedback,
		},
	})
}
