package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, first_name, last_name, password_hash)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.FirstName, user.LastName,
		user.PasswordHash).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", apperr.Conflict("user with this email or username already exists")
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, first_name, last_name, password_hash, avatar_path, created_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, first_name, last_name, password_hash, avatar_path, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// UpdateAvatar сохраняет относительный путь аватара пользователя.
// Пустой путь записывается как NULL (аватар удалён).
func (s *Storage) UpdateAvatar(ctx context.Context, userUID, avatarPath string) error {
	const op = "storage.UpdateAvatar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var path sql.NullString
	if avatarPath != "" {
		path = sql.NullString{String: avatarPath, Valid: true}
	}
	query := `UPDATE users SET avatar_path = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, path, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var avatarPath sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &avatarPath, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if avatarPath.Valid {
		u.AvatarPath = avatarPath.String
	}
	return u, nil
}
