package purchase

import "github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"

// Item is one collected receipt line.
type Item struct {
	ItemCode    string  `json:"item_code"`
	ItemName    string  `json:"item_name"`
	UOM         string  `json:"uom"`
	Qty         float64 `json:"qty"`
	RejectedQty float64 `json:"rejected_qty"`
	Rate        float64 `json:"rate"`
}

// ItemsFromState reads collected items back out of flow state data. JSON
// persistence turns them into generic maps, both shapes are handled.
func ItemsFromState(v any) []Item {
	raw, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]Item); ok {
			return typed
		}
		return nil
	}

	items := make([]Item, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, Item{
			ItemCode:    asString(m["item_code"]),
			ItemName:    asString(m["item_name"]),
			UOM:         asString(m["uom"]),
			Qty:         asFloat(m["qty"]),
			RejectedQty: asFloat(m["rejected_qty"]),
			Rate:        asFloat(m["rate"]),
		})
	}

	return items
}

// AppendItem adds a line to the stored slice, keeping it JSON friendly.
func AppendItem(v any, item Item) []any {
	raw, _ := v.([]any)
	return append(raw, map[string]any{
		"item_code":    item.ItemCode,
		"item_name":    item.ItemName,
		"uom":          item.UOM,
		"qty":          item.Qty,
		"rejected_qty": item.RejectedQty,
		"rate":         item.Rate,
	})
}

// Header carries everything collected before the item loop.
type Header struct {
	Supplier     string
	Note         string
	Date         string
	Time         string
	Putaway      bool
	IsReturn     bool
	Warehouse    string
	RejectedWh   string
	NamingSeries string
}

// BuildPurchaseReceipt assembles the Purchase Receipt document. Each line's
// received quantity is accepted plus rejected, amount is accepted times rate.
func BuildPurchaseReceipt(h Header, items []Item) *entity.PurchaseReceipt {
	doc := &entity.PurchaseReceipt{
		Supplier:             h.Supplier,
		SupplierDeliveryNote: h.Note,
		PostingDate:          h.Date,
		PostingTime:          h.Time,
		SetWarehouse:         h.Warehouse,
		NamingSeries:         h.NamingSeries,
	}
	if h.Putaway {
		doc.ApplyPutawayRule = 1
	}
	if h.IsReturn {
		doc.IsReturn = 1
	}

	doc.Items = make([]entity.PurchaseReceiptItem, 0, len(items))
	for _, item := range items {
		line := entity.PurchaseReceiptItem{
			ItemCode:    item.ItemCode,
			ItemName:    item.ItemName,
			Qty:         item.Qty,
			ReceivedQty: item.Qty + item.RejectedQty,
			AcceptedQty: item.Qty,
			RejectedQty: item.RejectedQty,
			Warehouse:   h.Warehouse,
			Uom:         item.UOM,
			Rate:        item.Rate,
			Amount:      item.Qty * item.Rate,
		}
		if item.RejectedQty > 0 && h.RejectedWh != "" {
			line.RejectedWarehouse = h.RejectedWh
		}
		doc.Items = append(doc.Items, line)
	}

	return doc
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}
	return 0
}
