package flow

import "strings"

// Callback action constants
const (
	CallbackPrefix = "fl:"
	ActionYes      = "yes"
	ActionNo       = "no"
	ActionSkip     = "skip"
	ActionCancel   = "cancel"
	ActionSelect   = "select"
	ActionMenu     = "menu"
)

// CallbackData represents parsed callback data.
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses a callback data string.
// Format: "fl:action:value" or "fl:action"
func ParseCallback(data string) *CallbackData {
	if !strings.HasPrefix(data, CallbackPrefix) {
		return nil
	}

	data = strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.SplitN(data, ":", 2)

	cb := &CallbackData{Action: parts[0]}
	if len(parts) > 1 {
		cb.Value = parts[1]
	}

	return cb
}

// IsFlowCallback checks if the callback data belongs to a flow.
func IsFlowCallback(data string) bool {
	return strings.HasPrefix(data, CallbackPrefix)
}

// BuildCallback creates a callback data string.
func BuildCallback(action string, value ...string) string {
	if len(value) > 0 && value[0] != "" {
		return CallbackPrefix + action + ":" + value[0]
	}
	return CallbackPrefix + action
}

func (c *CallbackData) IsYes() bool    { return c.Action == ActionYes }
func (c *CallbackData) IsNo() bool     { return c.Action == ActionNo }
func (c *CallbackData) IsSkip() bool   { return c.Action == ActionSkip }
func (c *CallbackData) IsCancel() bool { return c.Action == ActionCancel }
func (c *CallbackData) IsSelect() bool { return c.Action == ActionSelect }
func (c *CallbackData) IsMenu() bool   { return c.Action == ActionMenu }

// SelectedID returns the selected item ID for select callbacks.
func (c *CallbackData) SelectedID() string {
	if c.Action != ActionSelect {
		return ""
	}
	return c.Value
}

// MenuID returns the menu item ID for menu callbacks.
func (c *CallbackData) MenuID() string {
	if c.Action != ActionMenu {
		return ""
	}
	return c.Value
}
