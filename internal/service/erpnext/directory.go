package erpnext

import (
	"context"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

// SearchItems looks up items by name fragment, all items when query is empty.
func (s *Service) SearchItems(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.Item, error) {
	fields := []string{"name", "item_code", "item_name", "item_group", "stock_uom", "description", "standard_rate"}

	var items []entity.Item
	err := s.GetList(ctx, creds, DocTypeItem, fields, "item_name", query, limit, "item_name asc", &items)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Service) SearchWarehouses(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.Warehouse, error) {
	fields := []string{"name", "warehouse_name"}

	var warehouses []entity.Warehouse
	err := s.GetList(ctx, creds, DocTypeWarehouse, fields, "warehouse_name", query, limit, "warehouse_name asc", &warehouses)
	if err != nil {
		return nil, err
	}

	return warehouses, nil
}

func (s *Service) SearchSuppliers(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.Supplier, error) {
	fields := []string{"name", "supplier_name", "supplier_group"}

	var suppliers []entity.Supplier
	err := s.GetList(ctx, creds, DocTypeSupplier, fields, "supplier_name", query, limit, "supplier_name asc", &suppliers)
	if err != nil {
		return nil, err
	}

	return suppliers, nil
}

func (s *Service) SearchCustomers(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.Customer, error) {
	fields := []string{"name", "customer_name", "customer_group"}

	var customers []entity.Customer
	err := s.GetList(ctx, creds, DocTypeCustomer, fields, "customer_name", query, limit, "customer_name asc", &customers)
	if err != nil {
		return nil, err
	}

	return customers, nil
}
