package meeting

import (
	"context"

	"meetsync/models"
)

// MeetingRepository archives finalized meetings for history and audit.
type MeetingRepository interface {
	Insert(ctx context.Context, rec *models.MeetingRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.MeetingRecord, error)
	GetBySession(ctx context.Context, sessionID string) (*models.MeetingRecord, error)
}
