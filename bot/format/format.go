// Package format renders ERP documents as chat messages and owns the
// "doc:" callback convention behind the action buttons under them.
package format

import (
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/service/erpnext"
)

// Document kinds used in callbacks and approve tokens.
const (
	KindEntry    = "entry"
	KindPurchase = "purchase"
	KindDelivery = "delivery"
)

const docCallbackPrefix = "doc:"

// Actions on a document.
const (
	ActionSubmit = "submit"
	ActionCancel = "cancel"
	ActionDelete = "delete"
)

// BuildDocCallback creates callback data in format "doc:action:kind:name".
func BuildDocCallback(action, kind, name string) string {
	return docCallbackPrefix + action + ":" + kind + ":" + name
}

// ParseDocCallback splits document action callback data.
func ParseDocCallback(data string) (action, kind, name string, ok bool) {
	if !strings.HasPrefix(data, docCallbackPrefix) {
		return "", "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(data, docCallbackPrefix), ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// IsDocCallback checks if the callback data is a document action.
func IsDocCallback(data string) bool {
	return strings.HasPrefix(data, docCallbackPrefix)
}

// DocActionsKeyboard offers the actions a document's status allows: drafts
// can be submitted or deleted, submitted documents cancelled, cancelled ones
// deleted.
func DocActionsKeyboard(kind, name string, status entity.DocStatus) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton

	switch status {
	case entity.DocStatusDraft:
		row = []tgbotapi.InlineKeyboardButton{
			{Text: "✅ Tasdiqlash", CallbackData: BuildDocCallback(ActionSubmit, kind, name)},
			{Text: "🗑 O'chirish", CallbackData: BuildDocCallback(ActionDelete, kind, name)},
		}
	case entity.DocStatusSubmitted:
		row = []tgbotapi.InlineKeyboardButton{
			{Text: "↩️ Bekor qilish", CallbackData: BuildDocCallback(ActionCancel, kind, name)},
		}
	default:
		row = []tgbotapi.InlineKeyboardButton{
			{Text: "🗑 O'chirish", CallbackData: BuildDocCallback(ActionDelete, kind, name)},
		}
	}

	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{row},
	}
}

// StockEntryCard renders a Stock Entry as an HTML message. ERP-supplied
// values go through esc so names with markup characters survive sending.
func StockEntryCard(e *entity.StockEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📄 <b>%s</b>\n", esc(e.Name))
	fmt.Fprintf(&sb, "Turi: %s\n", esc(e.StockEntryType))
	if e.PostingDate != "" {
		fmt.Fprintf(&sb, "Sana: %s\n", esc(e.PostingDate))
	}
	if e.ToWarehouse != "" {
		fmt.Fprintf(&sb, "Omborga: %s\n", esc(e.ToWarehouse))
	}
	if e.FromWarehouse != "" {
		fmt.Fprintf(&sb, "Ombordan: %s\n", esc(e.FromWarehouse))
	}
	fmt.Fprintf(&sb, "Holati: %s", e.DocStatus.Label())
	for _, item := range e.Items {
		fmt.Fprintf(&sb, "\n• %s x %s", itemLabel(item.ItemName, item.ItemCode), trimFloat(item.Qty))
		if item.Uom != "" {
			fmt.Fprintf(&sb, " %s", item.Uom)
		}
	}
	return sb.String()
}

// PurchaseReceiptCard renders a Purchase Receipt as an HTML message.
func PurchaseReceiptCard(r *entity.PurchaseReceipt) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📄 <b>%s</b>\n", esc(r.Name))
	fmt.Fprintf(&sb, "Yetkazib beruvchi: %s\n", esc(r.Supplier))
	if r.PostingDate != "" {
		fmt.Fprintf(&sb, "Sana: %s", esc(r.PostingDate))
		if r.PostingTime != "" {
			fmt.Fprintf(&sb, " %s", esc(r.PostingTime))
		}
		sb.WriteString("\n")
	}
	if r.SetWarehouse != "" {
		fmt.Fprintf(&sb, "Ombor: %s\n", esc(r.SetWarehouse))
	}
	if r.IsReturn == 1 {
		sb.WriteString("Qaytarish: ha\n")
	}
	fmt.Fprintf(&sb, "Holati: %s", r.DocStatus.Label())
	for _, item := range r.Items {
		fmt.Fprintf(&sb, "\n• %s x %s", itemLabel(item.ItemName, item.ItemCode), trimFloat(item.Qty))
		if item.RejectedQty > 0 {
			fmt.Fprintf(&sb, " (rad: %s)", trimFloat(item.RejectedQty))
		}
	}
	return sb.String()
}

// DeliveryNoteCard renders a Delivery Note as an HTML message.
func DeliveryNoteCard(n *entity.DeliveryNote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📄 <b>%s</b>\n", esc(n.Name))
	fmt.Fprintf(&sb, "Mijoz: %s\n", esc(n.Customer))
	if n.PostingDate != "" {
		fmt.Fprintf(&sb, "Sana: %s", esc(n.PostingDate))
		if n.PostingTime != "" {
			fmt.Fprintf(&sb, " %s", esc(n.PostingTime))
		}
		sb.WriteString("\n")
	}
	if n.SetWarehouse != "" {
		fmt.Fprintf(&sb, "Ombor: %s\n", esc(n.SetWarehouse))
	}
	if n.IsReturn == 1 {
		sb.WriteString("Qaytarish: ha\n")
	}
	fmt.Fprintf(&sb, "Holati: %s", n.DocStatus.Label())
	for _, item := range n.Items {
		fmt.Fprintf(&sb, "\n• %s x %s", itemLabel(item.ItemName, item.ItemCode), trimFloat(item.Qty))
	}
	return sb.String()
}

func itemLabel(name, code string) string {
	if name != "" {
		return esc(name)
	}
	return esc(code)
}

func esc(s string) string {
	return html.EscapeString(s)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// ErrorText turns an ERP failure into a message the user can act on. Known
// failure modes get a dedicated hint instead of the raw server text.
func ErrorText(err error) string {
	var apiErr *erpnext.APIError
	if !errors.As(err, &apiErr) {
		return "ERP bilan bog'lanishda xatolik yuz berdi. Birozdan so'ng qaytadan urinib ko'ring."
	}

	detail := strings.ToLower(apiErr.Detail)
	switch {
	case strings.Contains(detail, "valuation rate"):
		return "ERP mahsulot narxini talab qilmoqda (Valuation Rate). " +
			"Mahsulot uchun narx belgilang yoki administratorga murojaat qiling."
	case strings.Contains(detail, "cannot delete or cancel"):
		return "Hujjatni o'chirib bo'lmaydi: unga bog'langan boshqa hujjatlar bor. " +
			"Avval bog'liq hujjatlarni bekor qiling."
	case strings.Contains(detail, "negative stock"):
		return "Omborda yetarli mahsulot yo'q (negative stock). Miqdorni tekshiring."
	}

	return fmt.Sprintf("ERP xatolik qaytardi: %s", apiErr.Detail)
}
