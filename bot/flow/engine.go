package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

// Engine routes updates to the step a user is currently on and persists the
// state between updates.
type Engine struct {
	flows   map[FlowID]Flow
	storage StateStorage
	log     *slog.Logger
}

func NewEngine(storage StateStorage, log *slog.Logger) *Engine {
	return &Engine{
		flows:   make(map[FlowID]Flow),
		storage: storage,
		log:     log.With(sl.Module("flow")),
	}
}

// Register adds a flow to the engine.
func (e *Engine) Register(f Flow) {
	e.flows[f.ID()] = f
	e.log.Info("registered flow", slog.String("flow_id", string(f.ID())))
}

// Start begins a new flow for a user, replacing any flow in progress.
func (e *Engine) Start(ctx context.Context, b *tgbotapi.Bot, userID, chatID int64, flowID FlowID) error {
	f, ok := e.flows[flowID]
	if !ok {
		return fmt.Errorf("flow not found: %s", flowID)
	}

	state := NewUserState(userID, chatID, flowID, f.InitialStep())

	if err := e.storage.Save(ctx, state); err != nil {
		return fmt.Errorf("saving initial state: %w", err)
	}

	step, ok := f.GetStep(f.InitialStep())
	if !ok {
		return fmt.Errorf("initial step not found: %s", f.InitialStep())
	}

	e.log.Info("starting flow",
		slog.Int64("user_id", userID),
		slog.String("flow_id", string(flowID)),
		slog.String("step_id", string(f.InitialStep())),
	)

	return e.processResult(ctx, b, state, f, step.Enter(ctx, b, state))
}

// StartAt begins a flow for a user at a specific step without calling Enter,
// so the update that triggered it can be routed to that step directly.
func (e *Engine) StartAt(ctx context.Context, userID, chatID int64, flowID FlowID, stepID StepID) error {
	f, ok := e.flows[flowID]
	if !ok {
		return fmt.Errorf("flow not found: %s", flowID)
	}
	if _, ok := f.GetStep(stepID); !ok {
		return fmt.Errorf("step not found: %s", stepID)
	}

	e.log.Info("resuming flow",
		slog.Int64("user_id", userID),
		slog.String("flow_id", string(flowID)),
		slog.String("step_id", string(stepID)),
	)

	return e.storage.Save(ctx, NewUserState(userID, chatID, flowID, stepID))
}

// HandleMessage routes a message to the current flow step.
func (e *Engine) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context) error {
	state, f, step, err := e.current(ctx, c.EffectiveUser.Id)
	if err != nil || state == nil {
		return err
	}

	return e.processResult(ctx, b, state, f, step.HandleMessage(ctx, b, c, state))
}

// HandleCallback routes a callback to the current flow step.
func (e *Engine) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, data string) error {
	state, f, step, err := e.current(ctx, c.EffectiveUser.Id)
	if err != nil || state == nil {
		return err
	}

	return e.processResult(ctx, b, state, f, step.HandleCallback(ctx, b, c, state, data))
}

// GetState retrieves the current state for a user.
func (e *Engine) GetState(ctx context.Context, userID int64) (*UserState, error) {
	return e.storage.Load(ctx, userID)
}

// HasActiveFlow checks if a user has a flow in progress.
func (e *Engine) HasActiveFlow(ctx context.Context, userID int64) (bool, error) {
	return e.storage.Exists(ctx, userID)
}

// ClearState removes the flow state for a user.
func (e *Engine) ClearState(ctx context.Context, userID int64) error {
	return e.storage.Delete(ctx, userID)
}

func (e *Engine) current(ctx context.Context, userID int64) (*UserState, Flow, Step, error) {
	state, err := e.storage.Load(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return nil, nil, nil, nil
	}

	f, ok := e.flows[state.FlowID]
	if !ok {
		return nil, nil, nil, fmt.Errorf("flow not found: %s", state.FlowID)
	}

	step, ok := f.GetStep(state.CurrentStep)
	if !ok {
		return nil, nil, nil, fmt.Errorf("step not found: %s", state.CurrentStep)
	}

	return state, f, step, nil
}

// processResult applies a step result: merges data, completes or transitions.
// Transitions call Enter on the new step, whose result is processed in turn so
// steps can chain without waiting for input.
func (e *Engine) processResult(ctx context.Context, b *tgbotapi.Bot, state *UserState, f Flow, result StepResult) error {
	for {
		if result.Error != nil {
			e.log.Error("step error",
				slog.Int64("user_id", state.UserID),
				slog.String("step_id", string(state.CurrentStep)),
				sl.Err(result.Error),
			)
			return result.Error
		}

		if result.UpdateState != nil {
			state.MergeData(result.UpdateState)
		}
		state.UpdatedAt = time.Now()

		if result.Complete {
			e.log.Info("flow completed",
				slog.Int64("user_id", state.UserID),
				slog.String("flow_id", string(state.FlowID)),
			)
			return e.storage.Delete(ctx, state.UserID)
		}

		if result.NextStep == "" || result.NextStep == state.CurrentStep {
			return e.storage.Save(ctx, state)
		}

		state.CurrentStep = result.NextStep

		if err := e.storage.Save(ctx, state); err != nil {
			return fmt.Errorf("saving state after transition: %w", err)
		}

		step, ok := f.GetStep(result.NextStep)
		if !ok {
			return fmt.Errorf("next step not found: %s", result.NextStep)
		}

		e.log.Debug("transitioning to step",
			slog.Int64("user_id", state.UserID),
			slog.String("step_id", string(result.NextStep)),
		)

		result = step.Enter(ctx, b, state)
	}
}
