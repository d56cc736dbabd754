package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/studreg-api/internal/models"
)

// FormMode tells whether the form registers a new student or edits an
// existing one.
type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
)

// FormEvents are the outbound signals of a Form. Either callback may be nil.
type FormEvents struct {
	// Saved fires exactly once per save round trip, success or failure.
	Saved func(StatusMessage)
	// Canceled fires when the user abandons the draft. No store mutation.
	Canceled func()
}

// formDraft mirrors the editable fields with their validation rules: all four
// required, email format, and the course constrained to the offered set.
type formDraft struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Course    string `validate:"required,oneof=Java .Net Angular"`
}

// Form owns an editable draft of one student record. Construct it with the
// record to edit, or nil for a blank registration draft; reassigning the
// record via SetStudent resets the draft synchronously so a reused instance
// never leaks stale values.
type Form struct {
	api      StudentAPI
	events   FormEvents
	validate *validator.Validate

	draft   formDraft
	editID  int64
	mode    FormMode
	touched map[string]bool
	saving  bool
}

// NewForm constructs a form bound to the data-access client.
func NewForm(api StudentAPI, student *models.StudentView, events FormEvents) *Form {
	f := &Form{
		api:      api,
		events:   events,
		validate: validator.New(),
	}
	f.SetStudent(student)
	return f
}

// SetStudent resets the draft for a new target: a non-nil record patches
// every field from it (edit mode), nil clears every field (create mode).
// Touched state is discarded either way.
func (f *Form) SetStudent(student *models.StudentView) {
	f.touched = make(map[string]bool)
	if student == nil {
		f.mode = ModeCreate
		f.editID = 0
		f.draft = formDraft{}
		return
	}
	f.mode = ModeEdit
	f.editID = student.ID
	f.draft = formDraft{
		FirstName: student.FirstName,
		LastName:  student.LastName,
		Email:     student.Email,
		Course:    student.Course,
	}
}

// Mode reports whether the form is creating or editing.
func (f *Form) Mode() FormMode { return f.mode }

// EditID returns the id of the record being edited, zero in create mode.
func (f *Form) EditID() int64 { return f.editID }

// Saving reports whether a save round trip is in flight.
func (f *Form) Saving() bool { return f.saving }

// Draft returns the current field values.
func (f *Form) Draft() models.StudentInput {
	return models.StudentInput{
		FirstName: f.draft.FirstName,
		LastName:  f.draft.LastName,
		Email:     f.draft.Email,
		Course:    f.draft.Course,
	}
}

func (f *Form) SetFirstName(v string) { f.draft.FirstName = v; f.touched["FirstName"] = true }
func (f *Form) SetLastName(v string)  { f.draft.LastName = v; f.touched["LastName"] = true }
func (f *Form) SetEmail(v string)     { f.draft.Email = v; f.touched["Email"] = true }
func (f *Form) SetCourse(v string)    { f.draft.Course = v; f.touched["Course"] = true }

// Validate returns the failed check per field, empty when the draft is
// submittable. Recomputed from the draft on every call.
func (f *Form) Validate() map[string]string {
	fieldErrs := make(map[string]string)
	err := f.validate.Struct(f.draft)
	if err == nil {
		return fieldErrs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrs["_"] = err.Error()
		return fieldErrs
	}
	for _, fe := range verrs {
		fieldErrs[fe.Field()] = fe.Tag()
	}
	return fieldErrs
}

// VisibleErrors returns validation errors only for fields the user has
// touched (or all fields after a blocked submit).
func (f *Form) VisibleErrors() map[string]string {
	visible := make(map[string]string)
	for field, check := range f.Validate() {
		if f.touched[field] {
			visible[field] = check
		}
	}
	return visible
}

// Submit validates the draft and fires exactly one create or update call
// depending on mode. A failing check marks every field touched, surfaces the
// inline errors, and returns nil without touching the network. Otherwise the
// returned StatusMessage reports the outcome; on failure the draft stays
// intact for retry.
func (f *Form) Submit(ctx context.Context) *StatusMessage {
	if len(f.Validate()) > 0 {
		for _, field := range []string{"FirstName", "LastName", "Email", "Course"} {
			f.touched[field] = true
		}
		return nil
	}

	input := f.Draft()
	name := input.FirstName + " " + input.LastName

	f.saving = true
	var err error
	if f.mode == ModeEdit {
		_, err = f.api.Update(ctx, f.editID, input)
	} else {
		_, err = f.api.Create(ctx, input)
	}
	f.saving = false

	var msg StatusMessage
	if err != nil {
		action := "register"
		if f.mode == ModeEdit {
			action = "update"
		}
		msg = StatusMessage{Content: fmt.Sprintf("Failed to %s %s.", action, name), Kind: KindError}
	} else {
		action := "registered"
		if f.mode == ModeEdit {
			action = "updated"
		}
		msg = StatusMessage{Content: fmt.Sprintf("%s was successfully %s!", name, action), Kind: KindSuccess}
		f.SetStudent(nil)
	}

	if f.events.Saved != nil {
		f.events.Saved(msg)
	}
	return &msg
}

// Cancel signals the container to discard the draft. The store is never
// touched.
func (f *Form) Cancel() {
	if f.events.Canceled != nil {
		f.events.Canceled()
	}
}
