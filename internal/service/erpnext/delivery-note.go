package erpnext

import (
	"context"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

// CreateDeliveryNote inserts a draft Delivery Note and returns its name.
func (s *Service) CreateDeliveryNote(ctx context.Context, creds *entity.Credentials, note *entity.DeliveryNote) (string, error) {
	if note.Company == "" {
		note.Company = s.Company
	}
	return s.CreateDoc(ctx, creds, DocTypeDeliveryNote, note)
}

// ListDeliveryNotes browses recent Delivery Notes, newest first.
func (s *Service) ListDeliveryNotes(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.DeliveryNote, error) {
	fields := []string{"name", "customer", "posting_date", "docstatus"}

	var notes []entity.DeliveryNote
	err := s.GetList(ctx, creds, DocTypeDeliveryNote, fields, "name", query, limit, "modified desc", &notes)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (s *Service) GetDeliveryNote(ctx context.Context, creds *entity.Credentials, name string) (*entity.DeliveryNote, error) {
	var note entity.DeliveryNote
	if err := s.GetDoc(ctx, creds, DocTypeDeliveryNote, name, &note); err != nil {
		return nil, err
	}
	return &note, nil
}
