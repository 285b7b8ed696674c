package repository

import "context"

// BucketRepository owns the bucket-list entries created by a user. Account
// deletion cascades through it before the user record is removed.
type BucketRepository interface {
	// DeleteByOwner removes every bucket owned by the user and returns how
	// many were removed.
	DeleteByOwner(ctx context.Context, stableID string) (int, error)
}

// MessageRepository owns the messages exchanged between users. Cascade
// removes messages where the user is sender or receiver.
type MessageRepository interface {
	DeleteBySender(ctx context.Context, stableID string) (int, error)
	DeleteByReceiver(ctx context.Context, stableID string) (int, error)
}
