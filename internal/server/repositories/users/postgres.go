package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/dbx"
	domain "github.com/dmitrijs2005/flock/internal/models"
	"github.com/dmitrijs2005/flock/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `SELECT id, email, telephone, name, role, first_name, last_name, avatar, theme, notifications, salt, password_hash, created_at FROM users`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, telephone, name, role, first_name, last_name, avatar, theme, notifications, salt, password_hash)
		 VALUES (NULLIF($1, ''), NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Telephone, user.Name, string(user.Role),
		user.FirstName, user.LastName, user.Avatar, user.Theme, user.Notifications,
		user.Salt, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.findOne(ctx, selectUser+` WHERE lower(email) = lower($1) OR telephone = $1`, identifier)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, selectUser+` WHERE lower(email) = lower($1)`, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users
		 SET email = NULLIF($2, ''), telephone = NULLIF($3, ''), name = $4,
		     first_name = $5, last_name = $6, avatar = $7, theme = $8, notifications = $9
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Telephone, user.Name,
		user.FirstName, user.LastName, user.Avatar, user.Theme, user.Notifications,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var (
		user             models.User
		email, telephone sql.NullString
		role             string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &email, &telephone, &user.Name, &role,
		&user.FirstName, &user.LastName, &user.Avatar, &user.Theme, &user.Notifications,
		&user.Salt, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Email = email.String
	user.Telephone = telephone.String
	user.Role = domain.Role(role)
	return &user, nil
}
