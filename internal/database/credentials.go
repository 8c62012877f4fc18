package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

type credentialsRow struct {
	TelegramId int64     `db:"telegram_id"`
	APIKey     string    `db:"api_key"`
	APISecret  string    `db:"api_secret"`
	Status     string    `db:"status"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// GetCredentials returns the user's credentials with the key pair opened,
// or nil when the user never started linking.
func (s *SQLiteDB) GetCredentials(ctx context.Context, telegramId int64) (*entity.Credentials, error) {
	var row credentialsRow

	err := s.db.GetContext(ctx, &row,
		`SELECT telegram_id, api_key, api_secret, status, updated_at
		 FROM credentials WHERE telegram_id = ?`, telegramId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credentials %d: %w", telegramId, err)
	}

	creds := &entity.Credentials{
		TelegramId: row.TelegramId,
		Status:     row.Status,
		UpdatedAt:  row.UpdatedAt,
	}

	if row.APIKey != "" {
		if creds.APIKey, err = s.box.Open(row.APIKey); err != nil {
			return nil, fmt.Errorf("open api key %d: %w", telegramId, err)
		}
	}
	if row.APISecret != "" {
		if creds.APISecret, err = s.box.Open(row.APISecret); err != nil {
			return nil, fmt.Errorf("open api secret %d: %w", telegramId, err)
		}
	}

	return creds, nil
}

// ClearCredentials drops the stored key pair and puts the user back at the
// start of the linking flow.
func (s *SQLiteDB) ClearCredentials(ctx context.Context, telegramId int64) error {
	const query = `
		INSERT INTO credentials (telegram_id, api_key, api_secret, status, updated_at)
		VALUES (?, '', '', ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			api_key    = '',
			api_secret = '',
			status     = excluded.status,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query,
		telegramId, entity.CredStatusPendingKey, time.Now().UTC()); err != nil {
		return fmt.Errorf("clear credentials %d: %w", telegramId, err)
	}

	return nil
}

// SaveAPIKey seals and stores the key, moving the user on to the secret step.
func (s *SQLiteDB) SaveAPIKey(ctx context.Context, telegramId int64, apiKey string) error {
	sealed, err := s.box.Seal(apiKey)
	if err != nil {
		return fmt.Errorf("seal api key: %w", err)
	}

	const query = `
		INSERT INTO credentials (telegram_id, api_key, api_secret, status, updated_at)
		VALUES (?, ?, '', ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			api_key    = excluded.api_key,
			api_secret = '',
			status     = excluded.status,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query,
		telegramId, sealed, entity.CredStatusPendingSecret, time.Now().UTC()); err != nil {
		return fmt.Errorf("save api key %d: %w", telegramId, err)
	}

	return nil
}

// SaveAPISecret seals and stores the secret. Status stays pending until the
// pair is verified against the ERP and Activate is called.
func (s *SQLiteDB) SaveAPISecret(ctx context.Context, telegramId int64, apiSecret string) error {
	sealed, err := s.box.Seal(apiSecret)
	if err != nil {
		return fmt.Errorf("seal api secret: %w", err)
	}

	const query = `
		UPDATE credentials SET api_secret = ?, updated_at = ?
		WHERE telegram_id = ?`

	res, err := s.db.ExecContext(ctx, query, sealed, time.Now().UTC(), telegramId)
	if err != nil {
		return fmt.Errorf("save api secret %d: %w", telegramId, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("save api secret %d: no pending key", telegramId)
	}

	return nil
}

func (s *SQLiteDB) ActivateCredentials(ctx context.Context, telegramId int64) error {
	const query = `
		UPDATE credentials SET status = ?, updated_at = ?
		WHERE telegram_id = ?`

	if _, err := s.db.ExecContext(ctx, query,
		entity.CredStatusActive, time.Now().UTC(), telegramId); err != nil {
		return fmt.Errorf("activate credentials %d: %w", telegramId, err)
	}

	return nil
}

func (s *SQLiteDB) CountActiveCredentials(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM credentials WHERE status = ?`, entity.CredStatusActive)
	if err != nil {
		return 0, fmt.Errorf("count active credentials: %w", err)
	}
	return n, nil
}
