package entry

import (
	"context"
	"log/slog"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
)

const FlowID flow.FlowID = "stock_entry"

// Step IDs
const (
	StepType      flow.StepID = "type"
	StepItem      flow.StepID = "item"
	StepWarehouse flow.StepID = "warehouse"
	StepQty       flow.StepID = "qty"
	StepSubmit    flow.StepID = "submit"
)

// State data keys
const (
	KeyEntryType     = "entry_type"
	KeyItemCode      = "item_code"
	KeyItemName      = "item_name"
	KeyItemUOM       = "item_uom"
	KeyWarehouse     = "warehouse"
	KeyWarehouseName = "warehouse_name"
	KeyQty           = "qty"
)

// ErpService creates the Stock Entry document.
type ErpService interface {
	CreateStockEntry(ctx context.Context, creds *entity.Credentials, entry *entity.StockEntry) (string, error)
}

// CredentialsProvider supplies the caller's ERP key pair.
type CredentialsProvider interface {
	GetCredentials(ctx context.Context, telegramId int64) (*entity.Credentials, error)
}

// Workflow drives a quick material receipt or issue: type, item, warehouse,
// quantity, then a single-item Stock Entry.
type Workflow struct {
	steps map[flow.StepID]flow.Step
}

func New(erp ErpService, creds CredentialsProvider, series string, log *slog.Logger) *Workflow {
	w := &Workflow{steps: make(map[flow.StepID]flow.Step)}

	w.steps[StepType] = NewTypeStep()
	w.steps[StepItem] = NewItemStep()
	w.steps[StepWarehouse] = NewWarehouseStep()
	w.steps[StepQty] = NewQtyStep()
	w.steps[StepSubmit] = NewSubmitStep(erp, creds, series, log)

	return w
}

func (w *Workflow) ID() flow.FlowID {
	return FlowID
}

func (w *Workflow) InitialStep() flow.StepID {
	return StepType
}

func (w *Workflow) GetStep(id flow.StepID) (flow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}
