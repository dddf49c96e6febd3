package mysql

import (
	"context"
	"database/sql"
	"errors"

	domuser "example.com/threadcart/app/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domuser.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, role_code
        FROM users WHERE id = ?
    `, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, role_code
        FROM users WHERE email = ?
    `, email)
	return scanUser(row)
}

func scanUser(row rowScanner) (*domuser.User, error) {
	var u domuser.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domuser.ErrUserNotFound
		}
		return nil, err
	}
	code, err := domuser.ParseRoleCode(role)
	if err != nil {
		return nil, err
	}
	u.RoleCode = code
	return &u, nil
}
