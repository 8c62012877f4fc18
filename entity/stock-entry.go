package entity

const (
	StockEntryTypeReceipt = "Material Receipt"
	StockEntryTypeIssue   = "Material Issue"
)

// StockEntry is the subset of the frappe Stock Entry document the bot
// creates and browses.
type StockEntry struct {
	Name           string           `json:"name,omitempty"`
	Company        string           `json:"company"`
	StockEntryType string           `json:"stock_entry_type"`
	NamingSeries   string           `json:"naming_series,omitempty"`
	PostingDate    string           `json:"posting_date,omitempty"`
	ToWarehouse    string           `json:"to_warehouse,omitempty"`
	FromWarehouse  string           `json:"from_warehouse,omitempty"`
	DocStatus      DocStatus        `json:"docstatus,omitempty"`
	Items          []StockEntryItem `json:"items,omitempty"`
}

type StockEntryItem struct {
	ItemCode        string  `json:"item_code"`
	ItemName        string  `json:"item_name,omitempty"`
	Qty             float64 `json:"qty"`
	Uom             string  `json:"uom,omitempty"`
	StockUom        string  `json:"stock_uom,omitempty"`
	TargetWarehouse string  `json:"t_warehouse,omitempty"`
	SourceWarehouse string  `json:"s_warehouse,omitempty"`
}
