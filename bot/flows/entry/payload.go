package entry

import "github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"

// BuildStockEntry assembles the single-item Stock Entry document. Receipts
// fill the target warehouse, issues the source one.
func BuildStockEntry(entryType, series, warehouse, itemCode, itemName, uom string, qty float64) *entity.StockEntry {
	doc := &entity.StockEntry{
		StockEntryType: entryType,
		NamingSeries:   series,
	}

	item := entity.StockEntryItem{
		ItemCode: itemCode,
		ItemName: itemName,
		Qty:      qty,
		Uom:      uom,
		StockUom: uom,
	}

	if entryType == entity.StockEntryTypeIssue {
		doc.FromWarehouse = warehouse
		item.SourceWarehouse = warehouse
	} else {
		doc.ToWarehouse = warehouse
		item.TargetWarehouse = warehouse
	}

	doc.Items = []entity.StockEntryItem{item}

	return doc
}
