package entity

type PurchaseReceipt struct {
	Name                 string                `json:"name,omitempty"`
	Supplier             string                `json:"supplier"`
	SupplierDeliveryNote string                `json:"supplier_delivery_note,omitempty"`
	PostingDate          string                `json:"posting_date,omitempty"`
	PostingTime          string                `json:"posting_time,omitempty"`
	ApplyPutawayRule     int                   `json:"apply_putaway_rule"`
	IsReturn             int                   `json:"is_return"`
	SetWarehouse         string                `json:"set_warehouse"`
	Company              string                `json:"company"`
	NamingSeries         string                `json:"naming_series,omitempty"`
	DocStatus            DocStatus             `json:"docstatus,omitempty"`
	Items                []PurchaseReceiptItem `json:"items,omitempty"`
}

type PurchaseReceiptItem struct {
	ItemCode          string  `json:"item_code"`
	ItemName          string  `json:"item_name,omitempty"`
	Qty               float64 `json:"qty"`
	ReceivedQty       float64 `json:"received_qty"`
	AcceptedQty       float64 `json:"accepted_qty"`
	RejectedQty       float64 `json:"rejected_qty"`
	Warehouse         string  `json:"warehouse,omitempty"`
	RejectedWarehouse string  `json:"rejected_warehouse,omitempty"`
	Uom               string  `json:"uom,omitempty"`
	Rate              float64 `json:"rate"`
	Amount            float64 `json:"amount"`
}
