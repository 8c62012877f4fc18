package delivery

import (
	"context"
	"log/slog"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

const FlowID flow.FlowID = "delivery_note"

// Step IDs
const (
	StepCustomer  flow.StepID = "customer"
	StepDate      flow.StepID = "date"
	StepTime      flow.StepID = "time"
	StepIsReturn  flow.StepID = "is_return"
	StepSourceWh  flow.StepID = "source_wh"
	StepItemsMenu flow.StepID = "items_menu"
	StepItemQty   flow.StepID = "item_qty"
	StepItemRate  flow.StepID = "item_rate"
	StepSubmit    flow.StepID = "submit"
)

// State data keys
const (
	KeyCustomer      = "customer"
	KeyCustomerName  = "customer_name"
	KeyDate          = "date"
	KeyTime          = "time"
	KeyIsReturn      = "is_return"
	KeyWarehouse     = "warehouse"
	KeyWarehouseName = "warehouse_name"
	KeyItems         = "items"
	KeyPendingCode   = "pending_code"
	KeyPendingName   = "pending_name"
	KeyPendingUOM    = "pending_uom"
	KeyPendingQty    = "pending_qty"
)

// ErpService creates the Delivery Note document.
type ErpService interface {
	CreateDeliveryNote(ctx context.Context, creds *entity.Credentials, note *entity.DeliveryNote) (string, error)
}

// CredentialsProvider supplies the caller's ERP key pair.
type CredentialsProvider interface {
	GetCredentials(ctx context.Context, telegramId int64) (*entity.Credentials, error)
}

// Workflow collects a multi-item Delivery Note: customer, posting details,
// source warehouse, then an item loop with quantities and rates.
type Workflow struct {
	steps map[flow.StepID]flow.Step
}

func New(erp ErpService, creds CredentialsProvider, series string, log *slog.Logger) *Workflow {
	w := &Workflow{steps: make(map[flow.StepID]flow.Step)}

	w.steps[StepCustomer] = NewCustomerStep()
	w.steps[StepDate] = NewDateStep()
	w.steps[StepTime] = NewTimeStep()
	w.steps[StepIsReturn] = NewIsReturnStep()
	w.steps[StepSourceWh] = NewSourceWhStep()
	w.steps[StepItemsMenu] = NewItemsMenuStep()
	w.steps[StepItemQty] = NewItemQtyStep()
	w.steps[StepItemRate] = NewItemRateStep()
	w.steps[StepSubmit] = NewSubmitStep(erp, creds, series, log)

	return w
}

func (w *Workflow) ID() flow.FlowID {
	return FlowID
}

func (w *Workflow) InitialStep() flow.StepID {
	return StepCustomer
}

func (w *Workflow) GetStep(id flow.StepID) (flow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}
