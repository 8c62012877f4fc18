package delivery

import "github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"

// Item is one collected delivery line.
type Item struct {
	ItemCode string  `json:"item_code"`
	ItemName string  `json:"item_name"`
	UOM      string  `json:"uom"`
	Qty      float64 `json:"qty"`
	Rate     float64 `json:"rate"`
}

// ItemsFromState reads collected items back out of flow state data.
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
			ItemCode: asString(m["item_code"]),
			ItemName: asString(m["item_name"]),
			UOM:      asString(m["uom"]),
			Qty:      asFloat(m["qty"]),
			Rate:     asFloat(m["rate"]),
		})
	}

	return items
}

// AppendItem adds a line to the stored slice, keeping it JSON friendly.
func AppendItem(v any, item Item) []any {
	raw, _ := v.([]any)
	return append(raw, map[string]any{
		"item_code": item.ItemCode,
		"item_name": item.ItemName,
		"uom":       item.UOM,
		"qty":       item.Qty,
		"rate":      item.Rate,
	})
}

// Header carries everything collected before the item loop.
type Header struct {
	Customer     string
	Date         string
	Time         string
	IsReturn     bool
	Warehouse    string
	NamingSeries string
}

// BuildDeliveryNote assembles the Delivery Note document.
func BuildDeliveryNote(h Header, items []Item) *entity.DeliveryNote {
	doc := &entity.DeliveryNote{
		Customer:     h.Customer,
		PostingDate:  h.Date,
		PostingTime:  h.Time,
		SetWarehouse: h.Warehouse,
		NamingSeries: h.NamingSeries,
	}
	if h.IsReturn {
		doc.IsReturn = 1
	}

	doc.Items = make([]entity.DeliveryNoteItem, 0, len(items))
	for _, item := range items {
		doc.Items = append(doc.Items, entity.DeliveryNoteItem{
			ItemCode:  item.ItemCode,
			ItemName:  item.ItemName,
			Qty:       item.Qty,
			Uom:       item.UOM,
			Rate:      item.Rate,
			Amount:    item.Qty * item.Rate,
			Warehouse: h.Warehouse,
		})
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
