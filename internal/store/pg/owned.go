package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type bucketRepo struct{ pool *pgxpool.Pool }

func (r *bucketRepo) DeleteByOwner(ctx context.Context, stableID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bucket WHERE owner_id = $1`, stableID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

type messageRepo struct{ pool *pgxpool.Pool }

func (r *messageRepo) DeleteBySender(ctx context.Context, stableID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM message WHERE sender_id = $1`, stableID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *messageRepo) DeleteByReceiver(ctx context.Context, stableID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM message WHERE receiver_id = $1`, stableID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
