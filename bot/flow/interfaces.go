package flow

import (
	"context"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// StepID is a unique identifier for a step within a flow.
type StepID string

// FlowID is a unique identifier for a flow.
type FlowID string

// StepResult represents the outcome of handling an event in a step.
type StepResult struct {
	NextStep    StepID
	UpdateState map[string]any
	Complete    bool
	Error       error
}

// Step defines the interface for a single flow step.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Enter is called when the user enters this step.
	// It should send any initial messages/keyboards to the user.
	// Return a StepResult with NextStep set to auto-transition without waiting for user input.
	Enter(ctx context.Context, b *tgbotapi.Bot, state *UserState) StepResult

	// HandleMessage processes a text message from the user.
	HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *UserState) StepResult

	// HandleCallback processes a callback query from inline keyboard buttons.
	HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *UserState, data string) StepResult
}

// Flow defines the interface for a complete conversation flow.
type Flow interface {
	// ID returns the unique identifier for this flow.
	ID() FlowID

	// InitialStep returns the first step of the flow.
	InitialStep() StepID

	// GetStep returns a step by its ID.
	GetStep(id StepID) (Step, bool)
}

// StateStorage handles persistence of flow states.
type StateStorage interface {
	// Save persists a user's flow state.
	Save(ctx context.Context, state *UserState) error

	// Load retrieves a user's flow state, nil when absent.
	Load(ctx context.Context, userID int64) (*UserState, error)

	// Delete removes a user's flow state.
	Delete(ctx context.Context, userID int64) error

	// Exists checks if a user has a saved state.
	Exists(ctx context.Context, userID int64) (bool, error)
}

// BaseStep provides no-op handlers for steps that only need a subset.
type BaseStep struct {
	id StepID
}

func NewBaseStep(id StepID) BaseStep {
	return BaseStep{id: id}
}

func (s *BaseStep) ID() StepID {
	return s.id
}

func (s *BaseStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *UserState) StepResult {
	return StepResult{}
}

func (s *BaseStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *UserState) StepResult {
	return StepResult{}
}

func (s *BaseStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *UserState, data string) StepResult {
	return StepResult{}
}
