package purchase

import (
	"context"
	"log/slog"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

const FlowID flow.FlowID = "purchase_receipt"

// Step IDs
const (
	StepSupplier     flow.StepID = "supplier"
	StepNote         flow.StepID = "note"
	StepDate         flow.StepID = "date"
	StepTime         flow.StepID = "time"
	StepPutaway      flow.StepID = "putaway"
	StepIsReturn     flow.StepID = "is_return"
	StepAcceptedWh   flow.StepID = "accepted_wh"
	StepRejectedWh   flow.StepID = "rejected_wh"
	StepItemsMenu    flow.StepID = "items_menu"
	StepItemQty      flow.StepID = "item_qty"
	StepItemRejected flow.StepID = "item_rejected"
	StepItemRate     flow.StepID = "item_rate"
	StepSubmit       flow.StepID = "submit"
)

// State data keys
const (
	KeySupplier        = "supplier"
	KeySupplierName    = "supplier_name"
	KeyNote            = "note"
	KeyDate            = "date"
	KeyTime            = "time"
	KeyPutaway         = "putaway"
	KeyIsReturn        = "is_return"
	KeyWarehouse       = "warehouse"
	KeyWarehouseName   = "warehouse_name"
	KeyRejectedWh      = "rejected_wh"
	KeyItems           = "items"
	KeyPendingCode     = "pending_code"
	KeyPendingName     = "pending_name"
	KeyPendingUOM      = "pending_uom"
	KeyPendingQty      = "pending_qty"
	KeyPendingRejected = "pending_rejected"
)

// ErpService creates the Purchase Receipt document.
type ErpService interface {
	CreatePurchaseReceipt(ctx context.Context, creds *entity.Credentials, receipt *entity.PurchaseReceipt) (string, error)
}

// CredentialsProvider supplies the caller's ERP key pair.
type CredentialsProvider interface {
	GetCredentials(ctx context.Context, telegramId int64) (*entity.Credentials, error)
}

// Workflow collects a multi-item Purchase Receipt: supplier, posting details,
// warehouses, then an item loop with accepted/rejected quantities and rates.
type Workflow struct {
	steps map[flow.StepID]flow.Step
}

func New(erp ErpService, creds CredentialsProvider, series string, log *slog.Logger) *Workflow {
	w := &Workflow{steps: make(map[flow.StepID]flow.Step)}

	w.steps[StepSupplier] = NewSupplierStep()
	w.steps[StepNote] = NewNoteStep()
	w.steps[StepDate] = NewDateStep()
	w.steps[StepTime] = NewTimeStep()
	w.steps[StepPutaway] = NewPutawayStep()
	w.steps[StepIsReturn] = NewIsReturnStep()
	w.steps[StepAcceptedWh] = NewAcceptedWhStep()
	w.steps[StepRejectedWh] = NewRejectedWhStep()
	w.steps[StepItemsMenu] = NewItemsMenuStep()
	w.steps[StepItemQty] = NewItemQtyStep()
	w.steps[StepItemRejected] = NewItemRejectedStep()
	w.steps[StepItemRate] = NewItemRateStep()
	w.steps[StepSubmit] = NewSubmitStep(erp, creds, series, log)

	return w
}

func (w *Workflow) ID() flow.FlowID {
	return FlowID
}

func (w *Workflow) InitialStep() flow.StepID {
	return StepSupplier
}

func (w *Workflow) GetStep(id flow.StepID) (flow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}
