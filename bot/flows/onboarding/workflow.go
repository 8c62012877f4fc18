package onboarding

import (
	"context"
	"log/slog"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

const FlowID flow.FlowID = "onboarding"

// Step IDs
const (
	StepAPIKey    flow.StepID = "api_key"
	StepAPISecret flow.StepID = "api_secret"
)

// CredentialStore persists the key pair as the user hands it over.
type CredentialStore interface {
	SaveAPIKey(ctx context.Context, telegramId int64, apiKey string) error
	SaveAPISecret(ctx context.Context, telegramId int64, apiSecret string) error
	ActivateCredentials(ctx context.Context, telegramId int64) error
	GetCredentials(ctx context.Context, telegramId int64) (*entity.Credentials, error)
}

// Verifier checks a key pair against the ERP before activation.
type Verifier interface {
	VerifyCredentials(ctx context.Context, apiKey, apiSecret string) error
}

// Workflow walks a user through linking their ERPNext API key pair.
type Workflow struct {
	steps map[flow.StepID]flow.Step
}

func New(store CredentialStore, verifier Verifier, log *slog.Logger) *Workflow {
	w := &Workflow{steps: make(map[flow.StepID]flow.Step)}

	w.steps[StepAPIKey] = NewAPIKeyStep(store)
	w.steps[StepAPISecret] = NewAPISecretStep(store, verifier, log)

	return w
}

func (w *Workflow) ID() flow.FlowID {
	return FlowID
}

func (w *Workflow) InitialStep() flow.StepID {
	return StepAPIKey
}

func (w *Workflow) GetStep(id flow.StepID) (flow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}
