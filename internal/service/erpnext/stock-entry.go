package erpnext

import (
	"context"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

// CreateStockEntry inserts a draft Stock Entry and returns its name.
func (s *Service) CreateStockEntry(ctx context.Context, creds *entity.Credentials, entry *entity.StockEntry) (string, error) {
	if entry.Company == "" {
		entry.Company = s.Company
	}
	return s.CreateDoc(ctx, creds, DocTypeStockEntry, entry)
}

// ListStockEntries browses recent Stock Entries, newest first.
func (s *Service) ListStockEntries(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.StockEntry, error) {
	fields := []string{"name", "stock_entry_type", "posting_date", "docstatus"}

	var entries []entity.StockEntry
	err := s.GetList(ctx, creds, DocTypeStockEntry, fields, "name", query, limit, "modified desc", &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *Service) GetStockEntry(ctx context.Context, creds *entity.Credentials, name string) (*entity.StockEntry, error) {
	var entry entity.StockEntry
	if err := s.GetDoc(ctx, creds, DocTypeStockEntry, name, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
