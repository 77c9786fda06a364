package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	"github.com/ajisatria/go-blog-api/internal/domain/repository"
)

const uniqueViolation = "23505"

// isConflict reports whether err is a unique-index violation. The unique
// indexes on email/username/slug are the safety net when writes race.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.Password, string(u.Role))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isConflict(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id::text = $1", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *UserRepository) getBy(ctx context.Context, where, arg string) (*entity.User, error) {
	u := &entity.User{}
	var role string

	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE `+where, arg)

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &role,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)
	`, email, username).Scan(&exists)
	return exists, err
}

var _ repository.UserRepository = (*UserRepository)(nil)
