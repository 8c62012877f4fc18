package parse

import "strings"

// Inline results put a tagged message into the chat; flows pick the selection
// back out of that text. Tags bind a selection to the flow that asked for it.
const (
	TagEntryItem      = "#entryitem"
	TagPurchaseItem   = "#pritem"
	TagDeliveryItem   = "#dnitem"
	TagEntryWarehouse = "#entrywarehouse"
	TagSupplier       = "#supplier"
	TagCustomer       = "#customer"
)

// ItemRelayMessage renders the message an inline item result sends into the chat.
func ItemRelayMessage(tag, name, code, uom string) string {
	var sb strings.Builder
	sb.WriteString(tag)
	sb.WriteString("\n📦 ")
	sb.WriteString(name)
	sb.WriteString("\nItem Code: ")
	sb.WriteString(code)
	sb.WriteString("\nUOM: ")
	sb.WriteString(uom)
	return sb.String()
}

// WarehouseRelayMessage renders the message an inline warehouse result sends.
func WarehouseRelayMessage(name, code string) string {
	var sb strings.Builder
	sb.WriteString(TagEntryWarehouse)
	sb.WriteString("\n🏬 ")
	sb.WriteString(name)
	sb.WriteString("\nCode: ")
	sb.WriteString(code)
	return sb.String()
}

// PartyRelayMessage renders the message an inline supplier or customer result
// sends. tag is TagSupplier or TagCustomer.
func PartyRelayMessage(tag, name, code string) string {
	var sb strings.Builder
	sb.WriteString(tag)
	sb.WriteString("\n🤝 ")
	sb.WriteString(name)
	sb.WriteString("\nCode: ")
	sb.WriteString(code)
	return sb.String()
}

// ItemRelay is an item selection picked out of a relayed message.
type ItemRelay struct {
	Tag  string
	Name string
	Code string
	UOM  string
}

// ParseItemRelay extracts an item selection, reporting false when the text is
// not a tagged item message.
func ParseItemRelay(text string) (*ItemRelay, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 {
		return nil, false
	}

	tag := strings.TrimSpace(lines[0])
	if tag != TagEntryItem && tag != TagPurchaseItem && tag != TagDeliveryItem {
		return nil, false
	}

	relay := &ItemRelay{Tag: tag}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "📦 "):
			relay.Name = strings.TrimSpace(strings.TrimPrefix(line, "📦 "))
		case strings.HasPrefix(line, "Item Code:"):
			relay.Code = strings.TrimSpace(strings.TrimPrefix(line, "Item Code:"))
		case strings.HasPrefix(line, "UOM:"):
			relay.UOM = strings.TrimSpace(strings.TrimPrefix(line, "UOM:"))
		}
	}

	if relay.Code == "" {
		return nil, false
	}
	if relay.Name == "" {
		relay.Name = relay.Code
	}

	return relay, true
}

// WarehouseRelay is a warehouse selection picked out of a relayed message.
type WarehouseRelay struct {
	Name string
	Code string
}

func ParseWarehouseRelay(text string) (*WarehouseRelay, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != TagEntryWarehouse {
		return nil, false
	}

	relay := &WarehouseRelay{}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "🏬 "):
			relay.Name = strings.TrimSpace(strings.TrimPrefix(line, "🏬 "))
		case strings.HasPrefix(line, "Code:"):
			relay.Code = strings.TrimSpace(strings.TrimPrefix(line, "Code:"))
		}
	}

	if relay.Code == "" {
		return nil, false
	}
	if relay.Name == "" {
		relay.Name = relay.Code
	}

	return relay, true
}

// PartyRelay is a supplier or customer selection picked out of a relayed
// message. Tag tells which one.
type PartyRelay struct {
	Tag  string
	Name string
	Code string
}

func ParsePartyRelay(text string) (*PartyRelay, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 {
		return nil, false
	}

	tag := strings.TrimSpace(lines[0])
	if tag != TagSupplier && tag != TagCustomer {
		return nil, false
	}

	relay := &PartyRelay{Tag: tag}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "🤝 "):
			relay.Name = strings.TrimSpace(strings.TrimPrefix(line, "🤝 "))
		case strings.HasPrefix(line, "Code:"):
			relay.Code = strings.TrimSpace(strings.TrimPrefix(line, "Code:"))
		}
	}

	if relay.Code == "" {
		return nil, false
	}
	if relay.Name == "" {
		relay.Name = relay.Code
	}

	return relay, true
}

// Review pickers relay a short token instead of a full card.
const (
	approveEntryPrefix    = "entry-approve:"
	approvePurchasePrefix = "purchase-approve:"
	approveDeliveryPrefix = "delivery-approve:"
)

// ApproveTokenMessage renders the token an approve picker sends into the chat.
// kind is "entry", "purchase" or "delivery".
func ApproveTokenMessage(kind, name string) string {
	switch kind {
	case "purchase":
		return approvePurchasePrefix + name
	case "delivery":
		return approveDeliveryPrefix + name
	default:
		return approveEntryPrefix + name
	}
}

// ParseApproveToken extracts the document kind and name from an approve token.
func ParseApproveToken(text string) (kind, name string, ok bool) {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, approveEntryPrefix):
		return "entry", strings.TrimSpace(strings.TrimPrefix(text, approveEntryPrefix)), true
	case strings.HasPrefix(text, approvePurchasePrefix):
		return "purchase", strings.TrimSpace(strings.TrimPrefix(text, approvePurchasePrefix)), true
	case strings.HasPrefix(text, approveDeliveryPrefix):
		return "delivery", strings.TrimSpace(strings.TrimPrefix(text, approveDeliveryPrefix)), true
	}
	return "", "", false
}
