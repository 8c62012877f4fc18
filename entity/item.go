package entity

type Item struct {
	Name         string  `json:"name"`
	ItemCode     string  `json:"item_code"`
	ItemName     string  `json:"item_name"`
	ItemGroup    string  `json:"item_group"`
	StockUom     string  `json:"stock_uom"`
	Description  string  `json:"description"`
	StandardRate float64 `json:"standard_rate"`
}

func (i *Item) DisplayName() string {
	if i.ItemName != "" {
		return i.ItemName
	}
	return i.ItemCode
}
