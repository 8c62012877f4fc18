package entity

type Warehouse struct {
	Name          string `json:"name"`
	WarehouseName string `json:"warehouse_name"`
}

func (w *Warehouse) DisplayName() string {
	if w.WarehouseName != "" {
		return w.WarehouseName
	}
	return w.Name
}
