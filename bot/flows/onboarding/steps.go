package onboarding

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/parse"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

// APIKeyStep asks for and validates the ERPNext API key.
type APIKeyStep struct {
	flow.BaseStep
	store CredentialStore
}

func NewAPIKeyStep(store CredentialStore) *APIKeyStep {
	return &APIKeyStep{BaseStep: flow.NewBaseStep(StepAPIKey), store: store}
}

func (s *APIKeyStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	msg := "ERPNext hisobingizni ulash uchun <b>API key</b> yuboring 🔑\n\n" +
		"Kalitni ERPNext'da <i>My Settings → API Access</i> bo'limida olasiz."
	_, err := b.SendMessage(state.ChatID, msg, &tgbotapi.SendMessageOpts{ParseMode: "HTML"})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *APIKeyStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	key := strings.TrimSpace(c.EffectiveMessage.Text)

	if !parse.ValidAPIToken(key) {
		_, _ = b.SendMessage(state.ChatID,
			"Kalit formati noto'g'ri. 14-18 ta harf va raqamdan iborat bo'lishi kerak. Qaytadan yuboring.", nil)
		return flow.StepResult{}
	}

	if err := s.store.SaveAPIKey(ctx, state.UserID, key); err != nil {
		return flow.StepResult{Error: err}
	}

	return flow.StepResult{NextStep: StepAPISecret}
}

// APISecretStep asks for the secret and verifies the pair against the ERP.
type APISecretStep struct {
	flow.BaseStep
	store    CredentialStore
	verifier Verifier
	log      *slog.Logger
}

func NewAPISecretStep(store CredentialStore, verifier Verifier, log *slog.Logger) *APISecretStep {
	return &APISecretStep{
		BaseStep: flow.NewBaseStep(StepAPISecret),
		store:    store,
		verifier: verifier,
		log:      log.With(sl.Module("onboarding")),
	}
}

func (s *APISecretStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Endi <b>API secret</b> yuboring 🔐", &tgbotapi.SendMessageOpts{ParseMode: "HTML"})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *APISecretStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	secret := strings.TrimSpace(c.EffectiveMessage.Text)

	if !parse.ValidAPIToken(secret) {
		_, _ = b.SendMessage(state.ChatID,
			"Secret formati noto'g'ri. 14-18 ta harf va raqamdan iborat bo'lishi kerak. Qaytadan yuboring.", nil)
		return flow.StepResult{}
	}

	if err := s.store.SaveAPISecret(ctx, state.UserID, secret); err != nil {
		return flow.StepResult{Error: err}
	}

	creds, err := s.store.GetCredentials(ctx, state.UserID)
	if err != nil {
		return flow.StepResult{Error: err}
	}
	if creds == nil {
		return flow.StepResult{Error: errors.New("credentials missing after save")}
	}

	if err := s.verifier.VerifyCredentials(ctx, creds.APIKey, creds.APISecret); err != nil {
		s.log.Warn("credential verification failed",
			slog.Int64("user_id", state.UserID),
			sl.Err(err),
		)
		_, _ = b.SendMessage(state.ChatID,
			"ERPNext kalitlarni qabul qilmadi ❌\nAPI secret'ni tekshirib, qaytadan yuboring.", nil)
		return flow.StepResult{}
	}

	if err := s.store.ActivateCredentials(ctx, state.UserID); err != nil {
		return flow.StepResult{Error: err}
	}

	_, _ = b.SendMessage(state.ChatID,
		"Hisob muvaffaqiyatli ulandi ✅\nEndi /entry, /purchase va /delivery buyruqlaridan foydalanishingiz mumkin.", nil)

	return flow.StepResult{Complete: true}
}
