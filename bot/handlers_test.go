package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/onboarding"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/config"
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

type memStates struct {
	states map[int64]*flow.UserState
}

func (m *memStates) SaveFlowState(_ context.Context, s *flow.UserState) error {
	m.states[s.UserID] = s
	return nil
}

func (m *memStates) LoadFlowState(_ context.Context, id int64) (*flow.UserState, error) {
	return m.states[id], nil
}

func (m *memStates) DeleteFlowState(_ context.Context, id int64) error {
	delete(m.states, id)
	return nil
}

func (m *memStates) FlowStateExists(_ context.Context, id int64) (bool, error) {
	_, ok := m.states[id]
	return ok, nil
}

// stubRepo backs both the router and the onboarding flow.
type stubRepo struct {
	creds     entity.Credentials
	states    *memStates
	cleared   bool
	activated bool
}

func newStubRepo(creds entity.Credentials) *stubRepo {
	return &stubRepo{creds: creds, states: &memStates{states: make(map[int64]*flow.UserState)}}
}

func (r *stubRepo) SaveUser(context.Context, *entity.User) error { return nil }

func (r *stubRepo) GetCredentials(_ context.Context, id int64) (*entity.Credentials, error) {
	copied := r.creds
	copied.TelegramId = id
	return &copied, nil
}

func (r *stubRepo) ClearCredentials(context.Context, int64) error {
	r.creds = entity.Credentials{Status: entity.CredStatusPendingKey}
	r.cleared = true
	return nil
}

func (r *stubRepo) SaveAPIKey(_ context.Context, _ int64, apiKey string) error {
	r.creds.APIKey = apiKey
	r.creds.Status = entity.CredStatusPendingSecret
	return nil
}

func (r *stubRepo) SaveAPISecret(_ context.Context, _ int64, apiSecret string) error {
	r.creds.APISecret = apiSecret
	return nil
}

func (r *stubRepo) ActivateCredentials(context.Context, int64) error {
	r.creds.Status = entity.CredStatusActive
	r.activated = true
	return nil
}

type okVerifier struct{}

func (okVerifier) VerifyCredentials(context.Context, string, string) error { return nil }

func newTestTgBot(repo *stubRepo) *TgBot {
	lg := slog.Default()
	t := &TgBot{log: lg, api: testBot(), repo: repo, conf: &config.Config{}}

	engine := flow.NewEngine(flow.NewRepositoryStateStorage(repo.states), lg)
	engine.Register(onboarding.New(repo, okVerifier{}, lg))
	t.engine = engine

	return t
}

func textCtx(userID, chatID int64, text string) *ext.Context {
	return &ext.Context{
		EffectiveUser:    &tgbotapi.User{Id: userID},
		EffectiveChat:    &tgbotapi.Chat{Id: chatID, Type: "private"},
		EffectiveMessage: &tgbotapi.Message{Text: text, Chat: tgbotapi.Chat{Id: chatID}},
	}
}

func TestMainMenuHasResetButton(t *testing.T) {
	var labels []string
	for _, row := range mainMenuKeyboard().Keyboard {
		for _, btn := range row {
			labels = append(labels, btn.Text)
		}
	}

	assert.Contains(t, labels, menuReset)
	assert.Contains(t, labels, menuItems)
	assert.Contains(t, labels, menuEntry)
}

func TestResetButtonClearsCredentials(t *testing.T) {
	repo := newStubRepo(entity.Credentials{
		APIKey: "ABCDEF1234567890", APISecret: "FEDCBA0987654321",
		Status: entity.CredStatusActive,
	})
	tg := newTestTgBot(repo)

	err := tg.handleMessage(tg.api, textCtx(1, 10, menuReset))

	require.NoError(t, err)
	assert.True(t, repo.cleared)
}

func TestFreeTextResumesPendingSecret(t *testing.T) {
	repo := newStubRepo(entity.Credentials{
		APIKey: "ABCDEF1234567890",
		Status: entity.CredStatusPendingSecret,
	})
	tg := newTestTgBot(repo)

	err := tg.handleMessage(tg.api, textCtx(1, 10, "FEDCBA0987654321"))

	require.NoError(t, err)
	assert.True(t, repo.activated)
	assert.Equal(t, "FEDCBA0987654321", repo.creds.APISecret)
}

func TestFreeTextResumesPendingKey(t *testing.T) {
	repo := newStubRepo(entity.Credentials{Status: entity.CredStatusPendingKey})
	tg := newTestTgBot(repo)

	err := tg.handleMessage(tg.api, textCtx(1, 10, "ABCDEF1234567890"))

	require.NoError(t, err)
	assert.Equal(t, "ABCDEF1234567890", repo.creds.APIKey)
	assert.Equal(t, entity.CredStatusPendingSecret, repo.creds.Status)

	state, err := repo.states.LoadFlowState(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, onboarding.StepAPISecret, state.CurrentStep)
}
