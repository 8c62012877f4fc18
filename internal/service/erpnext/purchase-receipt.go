package erpnext

import (
	"context"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

// CreatePurchaseReceipt inserts a draft Purchase Receipt and returns its name.
func (s *Service) CreatePurchaseReceipt(ctx context.Context, creds *entity.Credentials, receipt *entity.PurchaseReceipt) (string, error) {
	if receipt.Company == "" {
		receipt.Company = s.Company
	}
	return s.CreateDoc(ctx, creds, DocTypePurchaseReceipt, receipt)
}

// ListPurchaseReceipts browses recent Purchase Receipts, newest first.
func (s *Service) ListPurchaseReceipts(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.PurchaseReceipt, error) {
	fields := []string{"name", "supplier", "posting_date", "docstatus"}

	var receipts []entity.PurchaseReceipt
	err := s.GetList(ctx, creds, DocTypePurchaseReceipt, fields, "name", query, limit, "modified desc", &receipts)
	if err != nil {
		return nil, err
	}

	return receipts, nil
}

func (s *Service) GetPurchaseReceipt(ctx context.Context, creds *entity.Credentials, name string) (*entity.PurchaseReceipt, error) {
	var receipt entity.PurchaseReceipt
	if err := s.GetDoc(ctx, creds, DocTypePurchaseReceipt, name, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}
