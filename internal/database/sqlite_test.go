package repository

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/secret"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	box, err := secret.NewBox("test-passphrase")
	require.NoError(t, err)

	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.sqlite3"), box, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestSaveUserUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.SaveUser(ctx, &entity.User{TelegramId: 42, Username: "alice", FirstName: "Alice"})
	require.NoError(t, err)

	err = db.SaveUser(ctx, &entity.User{TelegramId: 42, Username: "alice2", FirstName: "Alice"})
	require.NoError(t, err)

	user, err := db.GetUser(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice2", user.Username)

	n, err := db.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestGetUserMissing(t *testing.T) {
	db := newTestDB(t)

	user, err := db.GetUser(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCredentialsLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	creds, err := db.GetCredentials(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, db.ClearCredentials(ctx, 7))

	creds, err = db.GetCredentials(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, entity.CredStatusPendingKey, creds.Status)
	assert.False(t, creds.Active())

	require.NoError(t, db.SaveAPIKey(ctx, 7, "abcdef0123456789"))

	creds, err = db.GetCredentials(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.CredStatusPendingSecret, creds.Status)
	assert.Equal(t, "abcdef0123456789", creds.APIKey)
	assert.Empty(t, creds.APISecret)

	require.NoError(t, db.SaveAPISecret(ctx, 7, "fedcba9876543210"))
	require.NoError(t, db.ActivateCredentials(ctx, 7))

	creds, err = db.GetCredentials(ctx, 7)
	require.NoError(t, err)
	assert.True(t, creds.Active())
	assert.Equal(t, "abcdef0123456789", creds.APIKey)
	assert.Equal(t, "fedcba9876543210", creds.APISecret)

	n, err := db.CountActiveCredentials(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// /clear drops the pair and restarts the linking flow
	require.NoError(t, db.ClearCredentials(ctx, 7))

	creds, err = db.GetCredentials(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.CredStatusPendingKey, creds.Status)
	assert.Empty(t, creds.APIKey)
	assert.Empty(t, creds.APISecret)
}

func TestCredentialsSealedAtRest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveAPIKey(ctx, 3, "plaintextkey123"))

	var stored string
	err := db.db.GetContext(ctx, &stored,
		`SELECT api_key FROM credentials WHERE telegram_id = ?`, 3)
	require.NoError(t, err)
	assert.NotEqual(t, "plaintextkey123", stored)
	assert.NotContains(t, stored, "plaintextkey123")
}

func TestSaveAPISecretWithoutKey(t *testing.T) {
	db := newTestDB(t)

	err := db.SaveAPISecret(context.Background(), 11, "secret")
	assert.Error(t, err)
}

func TestFlowStateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	exists, err := db.FlowStateExists(ctx, 5)
	require.NoError(t, err)
	assert.False(t, exists)

	state := &flow.UserState{
		UserID:      5,
		ChatID:      50,
		FlowID:      "stock_entry",
		CurrentStep: "qty",
		Data: map[string]any{
			"item_code": "ITM-001",
			"qty":       2.5,
		},
	}
	require.NoError(t, db.SaveFlowState(ctx, state))

	loaded, err := db.LoadFlowState(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, flow.FlowID("stock_entry"), loaded.FlowID)
	assert.Equal(t, flow.StepID("qty"), loaded.CurrentStep)
	assert.Equal(t, "ITM-001", loaded.GetString("item_code"))
	assert.InDelta(t, 2.5, loaded.GetFloat("qty"), 1e-9)

	exists, err = db.FlowStateExists(ctx, 5)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, db.DeleteFlowState(ctx, 5))

	loaded, err = db.LoadFlowState(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
