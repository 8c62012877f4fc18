package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

// SaveUser upserts the profile fields refreshed on every contact with the bot.
func (s *SQLiteDB) SaveUser(ctx context.Context, user *entity.User) error {
	now := time.Now().UTC()
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (telegram_id, username, first_name, last_name, created_at, updated_at)
		VALUES (:telegram_id, :username, :first_name, :last_name, :updated_at, :updated_at)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			updated_at = excluded.updated_at`

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("save user %d: %w", user.TelegramId, err)
	}

	return nil
}

func (s *SQLiteDB) GetUser(ctx context.Context, telegramId int64) (*entity.User, error) {
	var user entity.User

	err := s.db.GetContext(ctx, &user,
		`SELECT telegram_id, username, first_name, last_name, created_at, updated_at
		 FROM users WHERE telegram_id = ?`, telegramId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", telegramId, err)
	}

	return &user, nil
}

func (s *SQLiteDB) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
