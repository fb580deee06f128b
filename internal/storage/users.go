package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"streamly/internal/domain"
)

const userColumns = `id, email, username, password, role, created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

// CreateUser inserts a new account. Email and username uniqueness is enforced by the schema.
func (p *Postgres) CreateUser(ctx context.Context, email, username, passwordHash string, role domain.Role) (domain.User, error) {
	row := p.db.QueryRow(ctx, `
      INSERT INTO users (email, username, password, role)
      VALUES ($1, $2, $3, $4)
      RETURNING `+userColumns,
		email, username, passwordHash, string(role),
	)
	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.Conflict("user already exists with this email or username")
		}
		return domain.User{}, unexpected("create user", err)
	}
	return u, nil
}

func (p *Postgres) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, unexpected("find user by email", err)
	}
	return u, nil
}

func (p *Postgres) FindUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, unexpected("find user by id", err)
	}
	return u, nil
}
