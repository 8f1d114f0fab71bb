package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/foodgram-backend/internal/apperr"
	"github.com/magabrotheeeer/foodgram-backend/internal/models"
)

// CreateSubscription добавляет направленную подписку пользователя на автора.
// Гонка одновременных подписок разрешается уникальным ограничением базы:
// проигравший вызов получает ошибку конфликта, а не дубликат строки.
func (s *Storage) CreateSubscription(ctx context.Context, userUID, authorUID string) error {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, author_uid) VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, userUID, authorUID); err != nil {
		switch {
		case isUniqueViolation(err):
			return apperr.Conflict("subscription already exists")
		case isCheckViolation(err):
			return apperr.Conflict("cannot subscribe to yourself")
		case isForeignKeyViolation(err):
			return apperr.NotFound("author not found")
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveSubscription удаляет подписку пользователя на автора.
func (s *Storage) RemoveSubscription(ctx context.Context, userUID, authorUID string) error {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE user_uid = $1 AND author_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, authorUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("subscription not found")
	}
	return nil
}

// IsSubscribed сообщает, подписан ли пользователь на автора.
func (s *Storage) IsSubscribed(ctx context.Context, userUID, authorUID string) (bool, error) {
	const op = "storage.IsSubscribed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_uid = $1 AND author_uid = $2)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, authorUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListSubscribedAuthors возвращает авторов, на которых подписан пользователь,
// от новых подписок к старым, с пагинацией.
func (s *Storage) ListSubscribedAuthors(ctx context.Context, userUID string, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListSubscribedAuthors"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.avatar_path, u.created_at
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.author_uid
			  WHERE s.user_uid = $1
			  ORDER BY s.created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var avatarPath sql.NullString
		if err := rows.Scan(&u.UID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
			&u.PasswordHash, &avatarPath, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if avatarPath.Valid {
			u.AvatarPath = avatarPath.String
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
