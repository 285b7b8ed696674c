package pg

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dropDatabas3/moim/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct{ pool *pgxpool.Pool }

const userColumns = `stable_id, handle, display_name, email, password_hash, provider, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(
		&u.StableID, &u.Handle, &u.DisplayName, &u.Email,
		&u.PasswordHash, &u.Provider, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByStableID(ctx context.Context, stableID string) (*repository.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE stable_id = $1`, stableID)
	return scanUser(row)
}

func (r *userRepo) GetByHandle(ctx context.Context, handle string) (*repository.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE lower(handle) = lower($1)`, handle)
	return scanUser(row)
}

func (r *userRepo) ExistsByStableID(ctx context.Context, stableID string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM app_user WHERE stable_id = $1)`, stableID).Scan(&ok)
	return ok, err
}

func (r *userRepo) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM app_user WHERE lower(handle) = lower($1))`, handle).Scan(&ok)
	return ok, err
}

func (r *userRepo) Create(ctx context.Context, u repository.User) (*repository.User, error) {
	if u.StableID == "" {
		return nil, repository.ErrInvalidInput
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO app_user (stable_id, handle, display_name, email, password_hash, provider)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		RETURNING stable_id, COALESCE(handle, ''), display_name, email, password_hash, provider, created_at, updated_at`,
		u.StableID, u.Handle, u.DisplayName, u.Email, u.PasswordHash, u.Provider,
	)
	out, err := scanUser(row)
	if err != nil {
		return nil, uniqueViolation(err)
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, stableID string, input repository.UpdateUserInput) (*repository.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, strings.Replace(expr, "?", placeholder(len(args)), 1))
	}

	if input.Handle != nil {
		add(`handle = NULLIF(?, '')`, *input.Handle)
	}
	if input.DisplayName != nil {
		add(`display_name = ?`, *input.DisplayName)
	}
	if input.Email != nil {
		add(`email = ?`, *input.Email)
	}
	if input.PasswordHash != nil {
		add(`password_hash = ?`, *input.PasswordHash)
	}
	if len(sets) == 0 {
		return r.GetByStableID(ctx, stableID)
	}

	args = append(args, stableID)
	q := `UPDATE app_user SET ` + strings.Join(sets, ", ") + `, updated_at = now()
		WHERE stable_id = ` + placeholder(len(args)) + `
		RETURNING stable_id, COALESCE(handle, ''), display_name, email, password_hash, provider, created_at, updated_at`

	out, err := scanUser(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, uniqueViolation(err)
	}
	return out, nil
}

func (r *userRepo) Delete(ctx context.Context, stableID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM app_user WHERE stable_id = $1`, stableID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
