package entity

// DocStatus mirrors the frappe docstatus field.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

func (s DocStatus) Label() string {
	switch s {
	case DocStatusDraft:
		return "Draft"
	case DocStatusSubmitted:
		return "Tasdiqlangan"
	case DocStatusCancelled:
		return "Bekor qilingan"
	default:
		return "Noma'lum"
	}
}
