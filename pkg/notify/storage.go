package notify

import (
	"context"
	"time"
)

// Storage handles notification record persistence and retrieval.
type Storage interface {
	// Create stores a new record.
	Create(ctx context.Context, rec Record) error

	// Get retrieves a single record, or ErrRecordNotFound.
	Get(ctx context.Context, userID, id string) (*Record, error)

	// List returns a page of records for a user, newest first, along with
	// the total count matching the filter.
	List(ctx context.Context, userID string, opts ListOptions) ([]Record, int, error)

	// MarkRead marks record(s) as read.
	MarkRead(ctx context.Context, userID string, ids ...string) error

	// Delete removes record(s).
	Delete(ctx context.Context, userID string, ids ...string) error

	// CountUnread returns the unread, unexpired count for a user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// ListForDigest returns unread records created after since that have not
	// yet been included in a digest and have not expired.
	ListForDigest(ctx context.Context, userID string, since time.Time) ([]Record, error)

	// MarkDigested flags record(s) as included in a digest without touching
	// their read state.
	MarkDigested(ctx context.Context, userID string, ids ...string) error
}

// ListOptions provides filtering and pagination for listing records.
type ListOptions struct {
	Page       int       // 1-based page number (0 treated as 1)
	Limit      int       // Page size (0 = no limit)
	Category   *Category // When set, only records of this category
	OnlyUnread bool      // When true, only unread records
}

func (o ListOptions) offset() int {
	page := o.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * o.Limit
}
