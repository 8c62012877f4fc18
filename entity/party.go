package entity

type Supplier struct {
	Name          string `json:"name"`
	SupplierName  string `json:"supplier_name"`
	SupplierGroup string `json:"supplier_group"`
}

func (s *Supplier) DisplayName() string {
	if s.SupplierName != "" {
		return s.SupplierName
	}
	return s.Name
}

type Customer struct {
	Name          string `json:"name"`
	CustomerName  string `json:"customer_name"`
	CustomerGroup string `json:"customer_group"`
}

func (c *Customer) DisplayName() string {
	if c.CustomerName != "" {
		return c.CustomerName
	}
	return c.Name
}
