package ports

import (
	"context"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

// GenerateService is the external PDF-generation service seen from this app.
type GenerateService interface {
	// Health probes service reachability. A nil error means connected; the
	// returned info carries the service's capability flags for display.
	Health(ctx context.Context) (domain.ServerInfo, error)

	// Generate submits the full flat form payload to the schedule-specific
	// endpoint and returns the PDF bytes. Single attempt, no retry. Failures
	// are one of the genservice error types (server, content, transport).
	Generate(ctx context.Context, schedule domain.ScheduleType, payload []byte) ([]byte, error)
}

// DraftRepository persists form snapshots between sessions.
type DraftRepository interface {
	SaveDraft(ctx context.Context, d *domain.Draft) error
	GetDraft(ctx context.Context, id int64) (*domain.Draft, error)
	ListDrafts(ctx context.Context, schedule domain.ScheduleType) ([]domain.Draft, error)
	DeleteDraft(ctx context.Context, id int64) error
}

// FileSaver receives a successful generation result. The web handler
// implements it as an attachment download; tests swap in a recorder.
type FileSaver interface {
	Save(filename string, data []byte) error
}
