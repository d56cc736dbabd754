package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/studreg-api/internal/models"
)

// LoadState is the lifecycle of the roster list.
type LoadState int

const (
	StateLoading LoadState = iota
	StateLoaded
	StateError
)

// messageWindow is how long a status message stays visible before it
// auto-clears. A newer message resets the window.
const messageWindow = 5 * time.Second

// Dashboard owns the authoritative in-memory student list and orchestrates
// loading, searching, editing, and gated deletion. State changes are pushed
// to a single registered observer; reads and updates go through explicit
// methods, there is no implicit reactivity.
type Dashboard struct {
	mu  sync.Mutex
	api StudentAPI

	state    LoadState
	students []models.StudentView
	search   string

	message       *StatusMessage
	messageWindow time.Duration
	messageSeq    int

	form          *Form
	editing       *models.StudentView
	pendingDelete *models.StudentView

	onChange func()
}

// NewDashboard constructs a dashboard over the given data-access client. The
// embedded form starts in create mode.
func NewDashboard(api StudentAPI) *Dashboard {
	d := &Dashboard{
		api:           api,
		state:         StateLoading,
		messageWindow: messageWindow,
	}
	d.form = NewForm(api, nil, FormEvents{})
	return d
}

// SetObserver registers the change-notification callback. It is invoked
// after every state transition, outside the dashboard lock.
func (d *Dashboard) SetObserver(fn func()) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

func (d *Dashboard) notify() {
	d.mu.Lock()
	fn := d.onChange
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Load fetches the full roster. Until it resolves the dashboard is in
// StateLoading; on failure the previous list is kept and an error message is
// surfaced.
func (d *Dashboard) Load(ctx context.Context) {
	d.mu.Lock()
	d.state = StateLoading
	d.mu.Unlock()
	d.notify()

	students, err := d.api.List(ctx)

	if err != nil {
		d.mu.Lock()
		d.state = StateError
		d.mu.Unlock()
		d.setMessage(StatusMessage{Content: "Failed to load students. Check API connection.", Kind: KindError})
		return
	}

	d.mu.Lock()
	d.state = StateLoaded
	d.students = students
	d.mu.Unlock()
	d.notify()
}

// State returns the current list-load lifecycle state.
func (d *Dashboard) State() LoadState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Students returns a copy of the full, unfiltered list.
func (d *Dashboard) Students() []models.StudentView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.StudentView(nil), d.students...)
}

// SetSearch updates the live search term.
func (d *Dashboard) SetSearch(term string) {
	d.mu.Lock()
	d.search = term
	d.mu.Unlock()
	d.notify()
}

// Visible derives the filtered view of the list: a case-insensitive
// substring match of the search term against the full name, email, and
// course; any one field matching is sufficient. Pure recomputation from
// (list, term) on every call.
func (d *Dashboard) Visible() []models.StudentView {
	d.mu.Lock()
	students := append([]models.StudentView(nil), d.students...)
	term := strings.ToLower(strings.TrimSpace(d.search))
	d.mu.Unlock()

	if term == "" {
		return students
	}

	filtered := make([]models.StudentView, 0, len(students))
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.FullName()), term) ||
			strings.Contains(strings.ToLower(s.Email), term) ||
			strings.Contains(strings.ToLower(s.Course), term) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Message returns the currently visible status message, if any.
func (d *Dashboard) Message() *StatusMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.message == nil {
		return nil
	}
	msg := *d.message
	return &msg
}

// setMessage replaces the visible message and restarts the auto-clear
// window. The sequence counter keeps a stale timer from clearing a newer
// message.
func (d *Dashboard) setMessage(msg StatusMessage) {
	d.mu.Lock()
	d.message = &msg
	d.messageSeq++
	seq := d.messageSeq
	window := d.messageWindow
	d.mu.Unlock()
	d.notify()

	time.AfterFunc(window, func() {
		d.mu.Lock()
		if d.messageSeq != seq {
			d.mu.Unlock()
			return
		}
		d.message = nil
		d.mu.Unlock()
		d.notify()
	})
}

// Form returns the embedded create/edit form.
func (d *Dashboard) Form() *Form {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

// Editing returns the record currently targeted for edit, nil when the form
// is registering a new student.
func (d *Dashboard) Editing() *models.StudentView {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.editing == nil {
		return nil
	}
	s := *d.editing
	return &s
}

// StartEdit points the form at an existing record.
func (d *Dashboard) StartEdit(student models.StudentView) {
	d.mu.Lock()
	d.editing = &student
	d.form.SetStudent(&student)
	d.message = nil
	d.messageSeq++
	d.mu.Unlock()
	d.notify()
}

// CancelEdit discards the draft and returns the form to create mode.
func (d *Dashboard) CancelEdit() {
	d.mu.Lock()
	d.editing = nil
	d.form.SetStudent(nil)
	d.message = nil
	d.messageSeq++
	d.mu.Unlock()
	d.notify()
}

// SubmitForm drives the form's save and folds the outcome back into the
// dashboard: the status message is surfaced either way, and a successful
// save clears the edit target and reloads the list wholesale, because the
// server owns the generated id and timestamp.
func (d *Dashboard) SubmitForm(ctx context.Context) *StatusMessage {
	d.mu.Lock()
	form := d.form
	d.mu.Unlock()

	msg := form.Submit(ctx)
	if msg == nil {
		d.notify()
		return nil
	}

	d.setMessage(*msg)
	if msg.Kind == KindSuccess {
		d.mu.Lock()
		d.editing = nil
		d.mu.Unlock()
		d.Load(ctx)
	}
	return msg
}

// RequestDelete opens the confirmation gate for the given record. Nothing is
// deleted until ConfirmDelete.
func (d *Dashboard) RequestDelete(student models.StudentView) {
	d.mu.Lock()
	d.pendingDelete = &student
	d.mu.Unlock()
	d.notify()
}

// PendingDelete returns the record awaiting confirmation, nil when the gate
// is closed.
func (d *Dashboard) PendingDelete() *models.StudentView {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pendingDelete == nil {
		return nil
	}
	s := *d.pendingDelete
	return &s
}

// CancelDelete dismisses the confirmation without touching the store.
func (d *Dashboard) CancelDelete() {
	d.mu.Lock()
	d.pendingDelete = nil
	d.mu.Unlock()
	d.notify()
}

// ConfirmDelete executes the gated deletion. On success the list is patched
// locally by removing the matching id, and an in-progress edit of the same
// record is discarded. The confirmation gate closes either way.
func (d *Dashboard) ConfirmDelete(ctx context.Context) {
	d.mu.Lock()
	target := d.pendingDelete
	d.mu.Unlock()

	if target == nil {
		return
	}

	err := d.api.Delete(ctx, target.ID)

	d.mu.Lock()
	d.pendingDelete = nil
	if err == nil {
		kept := d.students[:0]
		for _, s := range d.students {
			if s.ID != target.ID {
				kept = append(kept, s)
			}
		}
		d.students = kept
		if d.editing != nil && d.editing.ID == target.ID {
			d.editing = nil
			d.form.SetStudent(nil)
		}
	}
	d.mu.Unlock()

	if err != nil {
		d.setMessage(StatusMessage{Content: "Failed to delete student.", Kind: KindError})
		return
	}
	d.setMessage(StatusMessage{Content: "Student deleted successfully!", Kind: KindSuccess})
}
