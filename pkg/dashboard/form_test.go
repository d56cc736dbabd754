package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studreg-api/internal/models"
)

type fakeAPI struct {
	students []models.StudentView
	nextID   int64

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	failList   bool
	failCreate bool
	failUpdate bool
	failDelete bool
}

func (f *fakeAPI) List(ctx context.Context) ([]models.StudentView, error) {
	f.listCalls++
	if f.failList {
		return nil, errors.New("connection refused")
	}
	return append([]models.StudentView(nil), f.students...), nil
}

func (f *fakeAPI) Create(ctx context.Context, input models.StudentInput) (*models.StudentView, error) {
	f.createCalls++
	if f.failCreate {
		return nil, errors.New("boom")
	}
	f.nextID++
	view := models.StudentView{
		ID:             f.nextID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Course:         input.Course,
		RegisteredDate: "2024-03-01T10:00:00Z",
	}
	f.students = append(f.students, view)
	return &view, nil
}

func (f *fakeAPI) Update(ctx context.Context, id int64, input models.StudentInput) (*models.StudentView, error) {
	f.updateCalls++
	if f.failUpdate {
		return nil, errors.New("boom")
	}
	for i, s := range f.students {
		if s.ID == id {
			s.FirstName = input.FirstName
			s.LastName = input.LastName
			s.Email = input.Email
			s.Course = input.Course
			f.students[i] = s
			return &s, nil
		}
	}
	return nil, fmt.Errorf("student %d not found", id)
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	f.deleteCalls++
	if f.failDelete {
		return errors.New("boom")
	}
	for i, s := range f.students {
		if s.ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("student %d not found", id)
}

func annLee() models.StudentView {
	return models.StudentView{ID: 1, FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Course: "Java", RegisteredDate: "2024-03-01T10:00:00Z"}
}

func TestFormStartsEmptyInCreateMode(t *testing.T) {
	f := NewForm(&fakeAPI{}, nil, FormEvents{})

	assert.Equal(t, ModeCreate, f.Mode())
	assert.Zero(t, f.EditID())
	assert.Equal(t, models.StudentInput{}, f.Draft())
}

func TestFormRequiredChecks(t *testing.T) {
	f := NewForm(&fakeAPI{}, nil, FormEvents{})

	errs := f.Validate()
	assert.Len(t, errs, 4)
	for _, field := range []string{"FirstName", "LastName", "Email", "Course"} {
		assert.Equal(t, "required", errs[field])
	}
}

func TestFormEmailFormatCheck(t *testing.T) {
	f := NewForm(&fakeAPI{}, nil, FormEvents{})
	f.SetFirstName("Ann")
	f.SetLastName("Lee")
	f.SetEmail("not-an-email")
	f.SetCourse("Java")

	errs := f.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs["Email"])
}

func TestFormCourseMustBeOffered(t *testing.T) {
	f := NewForm(&fakeAPI{}, nil, FormEvents{})
	f.SetFirstName("Ann")
	f.SetLastName("Lee")
	f.SetEmail("ann@x.com")
	f.SetCourse("Cobol")

	errs := f.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "oneof", errs["Course"])
}

func TestFormErrorsHiddenUntilTouched(t *testing.T) {
	f := NewForm(&fakeAPI{}, nil, FormEvents{})

	assert.Empty(t, f.VisibleErrors())

	f.SetEmail("bad")
	visible := f.VisibleErrors()
	require.Len(t, visible, 1)
	assert.Contains(t, visible, "Email")
}

func TestFormSubmitBlockedByValidation(t *testing.T) {
	api := &fakeAPI{}
	saved := 0
	f := NewForm(api, nil, FormEvents{Saved: func(StatusMessage) { saved++ }})

	msg := f.Submit(context.Background())
	assert.Nil(t, msg)
	assert.Zero(t, api.createCalls)
	assert.Zero(t, api.updateCalls)
	assert.Zero(t, saved)

	// The blocked submit marks every field touched so errors surface inline.
	assert.Len(t, f.VisibleErrors(), 4)
}

func TestFormSubmitCreate(t *testing.T) {
	api := &fakeAPI{}
	var got *StatusMessage
	f := NewForm(api, nil, FormEvents{Saved: func(m StatusMessage) { got = &m }})

	f.SetFirstName("Ann")
	f.SetLastName("Lee")
	f.SetEmail("ann@x.com")
	f.SetCourse("Java")

	msg := f.Submit(context.Background())
	require.NotNil(t, msg)
	assert.Equal(t, KindSuccess, msg.Kind)
	assert.Equal(t, "Ann Lee was successfully registered!", msg.Content)
	assert.Equal(t, 1, api.createCalls)
	assert.Zero(t, api.updateCalls)

	require.NotNil(t, got)
	assert.Equal(t, *msg, *got)

	// Draft resets for the next registration.
	assert.Equal(t, models.StudentInput{}, f.Draft())
	assert.Equal(t, ModeCreate, f.Mode())
}

func TestFormSubmitEdit(t *testing.T) {
	student := annLee()
	api := &fakeAPI{students: []models.StudentView{student}, nextID: 1}
	f := NewForm(api, &student, FormEvents{})

	assert.Equal(t, ModeEdit, f.Mode())
	assert.Equal(t, int64(1), f.EditID())
	assert.Equal(t, "ann@x.com", f.Draft().Email)

	f.SetCourse("Angular")
	msg := f.Submit(context.Background())
	require.NotNil(t, msg)
	assert.Equal(t, KindSuccess, msg.Kind)
	assert.Equal(t, "Ann Lee was successfully updated!", msg.Content)
	assert.Equal(t, 1, api.updateCalls)
	assert.Zero(t, api.createCalls)
	assert.Equal(t, "Angular", api.students[0].Course)
}

func TestFormSubmitFailureKeepsDraft(t *testing.T) {
	student := annLee()
	api := &fakeAPI{students: []models.StudentView{student}, nextID: 1, failUpdate: true}
	f := NewForm(api, &student, FormEvents{})

	f.SetCourse(".Net")
	msg := f.Submit(context.Background())
	require.NotNil(t, msg)
	assert.Equal(t, KindError, msg.Kind)
	assert.Equal(t, "Failed to update Ann Lee.", msg.Content)

	// Draft intact for retry.
	assert.Equal(t, ".Net", f.Draft().Course)
	assert.Equal(t, ModeEdit, f.Mode())
}

func TestFormSetStudentResetsBetweenTargets(t *testing.T) {
	f := NewForm(&fakeAPI{}, nil, FormEvents{})

	first := annLee()
	f.SetStudent(&first)
	f.SetEmail("scratch@x.com")

	second := models.StudentView{ID: 2, FirstName: "Bo", LastName: "Tan", Email: "bo@x.com", Course: "Angular"}
	f.SetStudent(&second)
	assert.Equal(t, "bo@x.com", f.Draft().Email)
	assert.Equal(t, int64(2), f.EditID())
	assert.Empty(t, f.VisibleErrors())

	f.SetStudent(nil)
	assert.Equal(t, models.StudentInput{}, f.Draft())
	assert.Equal(t, ModeCreate, f.Mode())
}

func TestFormCancelEmitsWithoutMutation(t *testing.T) {
	api := &fakeAPI{}
	canceled := false
	f := NewForm(api, nil, FormEvents{Canceled: func() { canceled = true }})

	f.SetFirstName("Ann")
	f.Cancel()

	assert.True(t, canceled)
	assert.Zero(t, api.createCalls)
	assert.Zero(t, api.updateCalls)
	assert.Zero(t, api.deleteCalls)
}
