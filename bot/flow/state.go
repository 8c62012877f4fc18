package flow

import "time"

// UserState represents the current flow state for a user.
type UserState struct {
	UserID      int64          `json:"user_id"`
	ChatID      int64          `json:"chat_id"`
	FlowID      FlowID         `json:"flow_id"`
	CurrentStep StepID         `json:"current_step"`
	Data        map[string]any `json:"data"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewUserState creates a new UserState with default values.
func NewUserState(userID, chatID int64, flowID FlowID, initialStep StepID) *UserState {
	return &UserState{
		UserID:      userID,
		ChatID:      chatID,
		FlowID:      flowID,
		CurrentStep: initialStep,
		Data:        make(map[string]any),
		UpdatedAt:   time.Now(),
	}
}

// GetString retrieves a string value from the state data.
func (s *UserState) GetString(key string) string {
	if v, ok := s.Data[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt retrieves an integer value from the state data.
// JSON round trips turn numbers into float64, so that case is handled too.
func (s *UserState) GetInt(key string) int {
	if v, ok := s.Data[key]; ok {
		switch val := v.(type) {
		case int:
			return val
		case int32:
			return int(val)
		case int64:
			return int(val)
		case float64:
			return int(val)
		}
	}
	return 0
}

// GetFloat retrieves a float value from the state data.
func (s *UserState) GetFloat(key string) float64 {
	if v, ok := s.Data[key]; ok {
		switch val := v.(type) {
		case float64:
			return val
		case float32:
			return float64(val)
		case int:
			return float64(val)
		case int64:
			return float64(val)
		}
	}
	return 0
}

// GetBool retrieves a boolean value from the state data.
func (s *UserState) GetBool(key string) bool {
	if v, ok := s.Data[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Set stores a value in the state data.
func (s *UserState) Set(key string, value any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// MergeData merges additional data into the state.
func (s *UserState) MergeData(data map[string]any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	for k, v := range data {
		s.Data[k] = v
	}
}
