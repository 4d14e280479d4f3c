package notification

import (
	"context"

	"meetsync/models"
)

// InviteDispatcher finalizes a meeting with the external calendar and
// notification collaborators. Implementations report whether invitation
// emails actually went out; the workflow completes either way.
type InviteDispatcher interface {
	SendInvites(ctx context.Context, rec *models.MeetingRecord) (*models.DispatchResult, error)
}
