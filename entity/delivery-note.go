package entity

type DeliveryNote struct {
	Name         string             `json:"name,omitempty"`
	Customer     string             `json:"customer"`
	PostingDate  string             `json:"posting_date,omitempty"`
	PostingTime  string             `json:"posting_time,omitempty"`
	Company      string             `json:"company"`
	SetWarehouse string             `json:"set_warehouse"`
	IsReturn     int                `json:"is_return"`
	NamingSeries string             `json:"naming_series,omitempty"`
	DocStatus    DocStatus          `json:"docstatus,omitempty"`
	Items        []DeliveryNoteItem `json:"items,omitempty"`
}

type DeliveryNoteItem struct {
	ItemCode  string  `json:"item_code"`
	ItemName  string  `json:"item_name,omitempty"`
	Qty       float64 `json:"qty"`
	Uom       string  `json:"uom,omitempty"`
	Rate      float64 `json:"rate"`
	Amount    float64 `json:"amount"`
	Warehouse string  `json:"warehouse,omitempty"`
}
