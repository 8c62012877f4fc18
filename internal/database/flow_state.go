package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
)

type flowStateRow struct {
	UserID      int64     `db:"user_id"`
	ChatID      int64     `db:"chat_id"`
	WorkflowID  string    `db:"workflow_id"`
	CurrentStep string    `db:"current_step"`
	Data        string    `db:"data"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// SaveFlowState persists a user's conversation state.
func (s *SQLiteDB) SaveFlowState(ctx context.Context, state *flow.UserState) error {
	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state.Data)
	if err != nil {
		return fmt.Errorf("marshal flow data: %w", err)
	}

	const query = `
		INSERT INTO flow_states (user_id, chat_id, workflow_id, current_step, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id      = excluded.chat_id,
			workflow_id  = excluded.workflow_id,
			current_step = excluded.current_step,
			data         = excluded.data,
			updated_at   = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		state.UserID, state.ChatID, string(state.FlowID), string(state.CurrentStep), string(data), state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save flow state %d: %w", state.UserID, err)
	}

	return nil
}

// LoadFlowState retrieves a user's conversation state, nil when absent.
func (s *SQLiteDB) LoadFlowState(ctx context.Context, userID int64) (*flow.UserState, error) {
	var row flowStateRow

	err := s.db.GetContext(ctx, &row,
		`SELECT user_id, chat_id, workflow_id, current_step, data, updated_at
		 FROM flow_states WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load flow state %d: %w", userID, err)
	}

	state := &flow.UserState{
		UserID:      row.UserID,
		ChatID:      row.ChatID,
		FlowID:      flow.FlowID(row.WorkflowID),
		CurrentStep: flow.StepID(row.CurrentStep),
		UpdatedAt:   row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Data), &state.Data); err != nil {
		return nil, fmt.Errorf("unmarshal flow data %d: %w", userID, err)
	}

	return state, nil
}

// DeleteFlowState removes a user's conversation state.
func (s *SQLiteDB) DeleteFlowState(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM flow_states WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete flow state %d: %w", userID, err)
	}
	return nil
}

// FlowStateExists reports whether the user has a conversation in progress.
func (s *SQLiteDB) FlowStateExists(ctx context.Context, userID int64) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM flow_states WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("check flow state %d: %w", userID, err)
	}
	return n > 0, nil
}

func (s *SQLiteDB) CountFlowStates(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM flow_states`); err != nil {
		return 0, fmt.Errorf("count flow states: %w", err)
	}
	return n, nil
}
