package flow

import (
	"context"
	"log/slog"
	"testing"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	states map[int64]*UserState
}

func newMemStorage() *memStorage {
	return &memStorage{states: make(map[int64]*UserState)}
}

func (m *memStorage) Save(_ context.Context, state *UserState) error {
	copied := *state
	m.states[state.UserID] = &copied
	return nil
}

func (m *memStorage) Load(_ context.Context, userID int64) (*UserState, error) {
	s, ok := m.states[userID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *memStorage) Delete(_ context.Context, userID int64) error {
	delete(m.states, userID)
	return nil
}

func (m *memStorage) Exists(_ context.Context, userID int64) (bool, error) {
	_, ok := m.states[userID]
	return ok, nil
}

type stubStep struct {
	BaseStep
	enter     func(state *UserState) StepResult
	onMessage func(state *UserState) StepResult
}

func (s *stubStep) Enter(_ context.Context, _ *tgbotapi.Bot, state *UserState) StepResult {
	if s.enter == nil {
		return StepResult{}
	}
	return s.enter(state)
}

func (s *stubStep) HandleMessage(_ context.Context, _ *tgbotapi.Bot, _ *ext.Context, state *UserState) StepResult {
	if s.onMessage == nil {
		return StepResult{}
	}
	return s.onMessage(state)
}

type stubFlow struct {
	id      FlowID
	initial StepID
	steps   map[StepID]Step
}

func (f *stubFlow) ID() FlowID          { return f.id }
func (f *stubFlow) InitialStep() StepID { return f.initial }
func (f *stubFlow) GetStep(id StepID) (Step, bool) {
	s, ok := f.steps[id]
	return s, ok
}

func msgContext(userID int64) *ext.Context {
	return &ext.Context{
		EffectiveUser: &tgbotapi.User{Id: userID},
	}
}

func TestEngineStartSavesInitialState(t *testing.T) {
	storage := newMemStorage()
	engine := NewEngine(storage, slog.Default())

	first := &stubStep{BaseStep: NewBaseStep("first")}
	engine.Register(&stubFlow{
		id:      "test",
		initial: "first",
		steps:   map[StepID]Step{"first": first},
	})

	require.NoError(t, engine.Start(context.Background(), nil, 1, 10, "test"))

	state, err := engine.GetState(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, FlowID("test"), state.FlowID)
	assert.Equal(t, StepID("first"), state.CurrentStep)
}

func TestEngineStartUnknownFlow(t *testing.T) {
	engine := NewEngine(newMemStorage(), slog.Default())

	err := engine.Start(context.Background(), nil, 1, 10, "missing")
	assert.Error(t, err)
}

func TestEngineAutoTransitionOnEnter(t *testing.T) {
	storage := newMemStorage()
	engine := NewEngine(storage, slog.Default())

	first := &stubStep{
		BaseStep: NewBaseStep("first"),
		enter: func(*UserState) StepResult {
			return StepResult{NextStep: "second", UpdateState: map[string]any{"from": "first"}}
		},
	}
	second := &stubStep{BaseStep: NewBaseStep("second")}

	engine.Register(&stubFlow{
		id:      "test",
		initial: "first",
		steps:   map[StepID]Step{"first": first, "second": second},
	})

	require.NoError(t, engine.Start(context.Background(), nil, 1, 10, "test"))

	state, err := engine.GetState(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, StepID("second"), state.CurrentStep)
	assert.Equal(t, "first", state.GetString("from"))
}

func TestEngineMessageMergesDataAndTransitions(t *testing.T) {
	storage := newMemStorage()
	engine := NewEngine(storage, slog.Default())

	qty := &stubStep{
		BaseStep: NewBaseStep("qty"),
		onMessage: func(*UserState) StepResult {
			return StepResult{NextStep: "done", UpdateState: map[string]any{"qty": 3.5}}
		},
	}
	done := &stubStep{BaseStep: NewBaseStep("done")}

	engine.Register(&stubFlow{
		id:      "test",
		initial: "qty",
		steps:   map[StepID]Step{"qty": qty, "done": done},
	})

	require.NoError(t, engine.Start(context.Background(), nil, 2, 20, "test"))
	require.NoError(t, engine.HandleMessage(context.Background(), nil, msgContext(2)))

	state, err := engine.GetState(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, StepID("done"), state.CurrentStep)
	assert.InDelta(t, 3.5, state.GetFloat("qty"), 1e-9)
}

func TestEngineCompleteDeletesState(t *testing.T) {
	storage := newMemStorage()
	engine := NewEngine(storage, slog.Default())

	only := &stubStep{
		BaseStep: NewBaseStep("only"),
		onMessage: func(*UserState) StepResult {
			return StepResult{Complete: true}
		},
	}

	engine.Register(&stubFlow{
		id:      "test",
		initial: "only",
		steps:   map[StepID]Step{"only": only},
	})

	require.NoError(t, engine.Start(context.Background(), nil, 3, 30, "test"))
	require.NoError(t, engine.HandleMessage(context.Background(), nil, msgContext(3)))

	active, err := engine.HasActiveFlow(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestEngineStartAtSkipsEnter(t *testing.T) {
	storage := newMemStorage()
	engine := NewEngine(storage, slog.Default())

	entered := false
	second := &stubStep{
		BaseStep: NewBaseStep("second"),
		enter: func(*UserState) StepResult {
			entered = true
			return StepResult{}
		},
	}
	engine.Register(&stubFlow{
		id:      "test",
		initial: "first",
		steps: map[StepID]Step{
			"first":  &stubStep{BaseStep: NewBaseStep("first")},
			"second": second,
		},
	})

	require.NoError(t, engine.StartAt(context.Background(), 1, 10, "test", "second"))

	assert.False(t, entered)
	state, err := engine.GetState(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, StepID("second"), state.CurrentStep)

	assert.Error(t, engine.StartAt(context.Background(), 1, 10, "test", "missing"))
	assert.Error(t, engine.StartAt(context.Background(), 1, 10, "missing", "second"))
}

func TestEngineMessageWithoutActiveFlow(t *testing.T) {
	engine := NewEngine(newMemStorage(), slog.Default())

	assert.NoError(t, engine.HandleMessage(context.Background(), nil, msgContext(99)))
}

func TestUserStateAccessors(t *testing.T) {
	state := NewUserState(1, 1, "test", "start")

	state.Set("name", "abc")
	state.Set("count", float64(7))
	state.Set("rate", 12.5)
	state.Set("flag", true)

	assert.Equal(t, "abc", state.GetString("name"))
	assert.Equal(t, 7, state.GetInt("count"))
	assert.InDelta(t, 12.5, state.GetFloat("rate"), 1e-9)
	assert.True(t, state.GetBool("flag"))

	assert.Empty(t, state.GetString("missing"))
	assert.Zero(t, state.GetInt("missing"))
	assert.False(t, state.GetBool("missing"))
}
