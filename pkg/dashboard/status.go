package dashboard

import (
	"context"

	"github.com/noah-isme/studreg-api/internal/models"
)

// MessageKind distinguishes success from error notifications.
type MessageKind string

const (
	KindSuccess MessageKind = "success"
	KindError   MessageKind = "error"
)

// StatusMessage is the transient outcome of the last mutating operation. It
// is never persisted; the dashboard shows at most one at a time.
type StatusMessage struct {
	Content string
	Kind    MessageKind
}

// StudentAPI is the data-access dependency of the UI components. It is
// satisfied by *client.Client.
type StudentAPI interface {
	List(ctx context.Context) ([]models.StudentView, error)
	Create(ctx context.Context, input models.StudentInput) (*models.StudentView, error)
	Update(ctx context.Context, id int64, input models.StudentInput) (*models.StudentView, error)
	Delete(ctx context.Context, id int64) error
}
