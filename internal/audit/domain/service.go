package domain

import "context"

// Service records admin actions. Writes are best effort: callers ignore
// the returned error so an audit outage never blocks the operation it
// describes.
type Service interface {
	AuditLog(ctx context.Context, actorType ActorType, actorID *string, action, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
