package repository

import (
	"context"
	"database/sql"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db}
}

const userColumns = `id, username, email, password_hash, role, created_at`

func (r *MySQLUserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM users FOR UPDATE`).Scan(&id)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO users (id, username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query, id, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	user.ID = id
	return user, nil
}

func (r *MySQLUserRepository) getUser(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	var user entity.User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MySQLUserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *MySQLUserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *MySQLUserRepository) GetUserByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? OR username = ?`, email, username)
}
