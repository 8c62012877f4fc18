package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

type fakeBotClient struct{}

func (fakeBotClient) RequestWithContext(_ context.Context, _ string, _ string, _ map[string]string, _ map[string]tgbotapi.FileReader, _ *tgbotapi.RequestOpts) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (fakeBotClient) TimeoutContext(_ *tgbotapi.RequestOpts) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Second)
}

func (fakeBotClient) GetAPIURL(_ *tgbotapi.RequestOpts) string {
	return "https://api.telegram.org"
}

func (fakeBotClient) FileURL(_ string, tgFilePath string, _ *tgbotapi.RequestOpts) string {
	return "https://api.telegram.org/file/" + tgFilePath
}

func testBot() *tgbotapi.Bot {
	return &tgbotapi.Bot{Token: "test", BotClient: fakeBotClient{}}
}

type fakeStore struct {
	key       string
	secret    string
	status    string
	activated bool
}

func (f *fakeStore) SaveAPIKey(_ context.Context, _ int64, apiKey string) error {
	f.key = apiKey
	f.secret = ""
	f.status = entity.CredStatusPendingSecret
	return nil
}

func (f *fakeStore) SaveAPISecret(_ context.Context, _ int64, apiSecret string) error {
	if f.status != entity.CredStatusPendingSecret {
		return errors.New("no pending key")
	}
	f.secret = apiSecret
	return nil
}

func (f *fakeStore) ActivateCredentials(_ context.Context, _ int64) error {
	f.status = entity.CredStatusActive
	f.activated = true
	return nil
}

func (f *fakeStore) GetCredentials(_ context.Context, id int64) (*entity.Credentials, error) {
	return &entity.Credentials{TelegramId: id, APIKey: f.key, APISecret: f.secret, Status: f.status}, nil
}

type stubVerifier struct {
	err error
}

func (v stubVerifier) VerifyCredentials(context.Context, string, string) error {
	return v.err
}

func msgCtx(userID int64, text string) *ext.Context {
	return &ext.Context{
		EffectiveUser:    &tgbotapi.User{Id: userID},
		EffectiveMessage: &tgbotapi.Message{Text: text},
	}
}

func TestAPIKeyStepStoresValidKey(t *testing.T) {
	store := &fakeStore{status: entity.CredStatusPendingKey}
	step := NewAPIKeyStep(store)
	state := flow.NewUserState(1, 10, FlowID, StepAPIKey)

	res := step.HandleMessage(context.Background(), testBot(), msgCtx(1, "ABCDEF1234567890"), state)

	assert.Equal(t, StepAPISecret, res.NextStep)
	assert.Equal(t, "ABCDEF1234567890", store.key)
	assert.Equal(t, entity.CredStatusPendingSecret, store.status)
}

func TestAPIKeyStepRejectsBadFormat(t *testing.T) {
	store := &fakeStore{status: entity.CredStatusPendingKey}
	step := NewAPIKeyStep(store)
	state := flow.NewUserState(1, 10, FlowID, StepAPIKey)

	res := step.HandleMessage(context.Background(), testBot(), msgCtx(1, "too short"), state)

	assert.Empty(t, res.NextStep)
	assert.False(t, res.Complete)
	assert.Empty(t, store.key)
}

func TestAPISecretStepKeepsKeyOnVerifyFailure(t *testing.T) {
	store := &fakeStore{key: "ABCDEF1234567890", status: entity.CredStatusPendingSecret}
	step := NewAPISecretStep(store, stubVerifier{err: errors.New("401 unauthorized")}, slog.Default())
	state := flow.NewUserState(1, 10, FlowID, StepAPISecret)

	res := step.HandleMessage(context.Background(), testBot(), msgCtx(1, "FEDCBA0987654321"), state)

	assert.False(t, res.Complete)
	assert.Empty(t, res.NextStep)
	assert.Equal(t, "ABCDEF1234567890", store.key)
	assert.Equal(t, entity.CredStatusPendingSecret, store.status)

	// the user retries with a corrected secret, no /start round trip
	retry := NewAPISecretStep(store, stubVerifier{}, slog.Default())
	res = retry.HandleMessage(context.Background(), testBot(), msgCtx(1, "AAAABBBBCCCCDDDD"), state)

	require.True(t, res.Complete)
	assert.True(t, store.activated)
	assert.Equal(t, entity.CredStatusActive, store.status)
}

func TestAPISecretStepActivatesOnSuccess(t *testing.T) {
	store := &fakeStore{key: "ABCDEF1234567890", status: entity.CredStatusPendingSecret}
	step := NewAPISecretStep(store, stubVerifier{}, slog.Default())
	state := flow.NewUserState(1, 10, FlowID, StepAPISecret)

	res := step.HandleMessage(context.Background(), testBot(), msgCtx(1, "FEDCBA0987654321"), state)

	require.True(t, res.Complete)
	assert.Equal(t, "FEDCBA0987654321", store.secret)
	assert.Equal(t, entity.CredStatusActive, store.status)
}
