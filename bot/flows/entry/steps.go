package entry

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow/ui"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/format"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/parse"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

// TypeStep asks whether material is coming in or going out.
type TypeStep struct {
	flow.BaseStep
}

func NewTypeStep() *TypeStep {
	return &TypeStep{BaseStep: flow.NewBaseStep(StepType)}
}

func (s *TypeStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	keyboard := ui.SelectionKeyboard([]ui.SelectableItem{
		{ID: "receipt", Text: "📥 Material kiridi"},
		{ID: "issue", Text: "📤 Material chiqdi"},
	})
	_, err := b.SendMessage(state.ChatID, "Harakat turini tanlang:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *TypeStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return flow.StepResult{}
	}

	entryType := entity.StockEntryTypeReceipt
	if cb.SelectedID() == "issue" {
		entryType = entity.StockEntryTypeIssue
	}

	_, _ = c.CallbackQuery.Answer(b, nil)

	return flow.StepResult{
		NextStep:    StepItem,
		UpdateState: map[string]any{KeyEntryType: entryType},
	}
}

func (s *TypeStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	_, _ = b.SendMessage(state.ChatID, "Tugmalardan birini tanlang 👆", nil)
	return flow.StepResult{}
}

// ItemStep waits for an item picked through inline search.
type ItemStep struct {
	flow.BaseStep
}

func NewItemStep() *ItemStep {
	return &ItemStep{BaseStep: flow.NewBaseStep(StepItem)}
}

func (s *ItemStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Mahsulotni tanlang:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SwitchInlineButton("📦 Mahsulot qidirish", "entryitem "),
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *ItemStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	relay, ok := parse.ParseItemRelay(c.EffectiveMessage.Text)
	if !ok || relay.Tag != parse.TagEntryItem {
		_, _ = b.SendMessage(state.ChatID, "Mahsulotni yuqoridagi tugma orqali qidirib tanlang.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{
		NextStep: StepWarehouse,
		UpdateState: map[string]any{
			KeyItemCode: relay.Code,
			KeyItemName: relay.Name,
			KeyItemUOM:  relay.UOM,
		},
	}
}

// WarehouseStep waits for a warehouse picked through inline search.
type WarehouseStep struct {
	flow.BaseStep
}

func NewWarehouseStep() *WarehouseStep {
	return &WarehouseStep{BaseStep: flow.NewBaseStep(StepWarehouse)}
}

func (s *WarehouseStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	prompt := "Qaysi omborga kirim qilinadi?"
	if state.GetString(KeyEntryType) == entity.StockEntryTypeIssue {
		prompt = "Qaysi ombordan chiqim qilinadi?"
	}
	_, err := b.SendMessage(state.ChatID, prompt, &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SwitchInlineButton("🏬 Ombor qidirish", "entrywarehouse "),
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *WarehouseStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	relay, ok := parse.ParseWarehouseRelay(c.EffectiveMessage.Text)
	if !ok {
		_, _ = b.SendMessage(state.ChatID, "Omborni yuqoridagi tugma orqali qidirib tanlang.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{
		NextStep: StepQty,
		UpdateState: map[string]any{
			KeyWarehouse:     relay.Code,
			KeyWarehouseName: relay.Name,
		},
	}
}

// QtyStep asks for the quantity.
type QtyStep struct {
	flow.BaseStep
}

func NewQtyStep() *QtyStep {
	return &QtyStep{BaseStep: flow.NewBaseStep(StepQty)}
}

func (s *QtyStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	uom := state.GetString(KeyItemUOM)
	prompt := "Miqdorni kiriting"
	if uom != "" {
		prompt += " (" + uom + ")"
	}
	prompt += ", masalan 2,5:"

	_, err := b.SendMessage(state.ChatID, prompt, nil)
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *QtyStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	qty, err := parse.ParseQty(c.EffectiveMessage.Text)
	if err != nil || qty <= 0 {
		_, _ = b.SendMessage(state.ChatID, "Miqdor musbat son bo'lishi kerak. Qaytadan kiriting.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{
		NextStep:    StepSubmit,
		UpdateState: map[string]any{KeyQty: qty},
	}
}

// SubmitStep creates the Stock Entry in the ERP.
type SubmitStep struct {
	flow.BaseStep
	erp    ErpService
	creds  CredentialsProvider
	series string
	log    *slog.Logger
}

func NewSubmitStep(erp ErpService, creds CredentialsProvider, series string, log *slog.Logger) *SubmitStep {
	return &SubmitStep{
		BaseStep: flow.NewBaseStep(StepSubmit),
		erp:      erp,
		creds:    creds,
		series:   series,
		log:      log.With(sl.Module("entry")),
	}
}

func (s *SubmitStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	creds, err := s.creds.GetCredentials(ctx, state.UserID)
	if err != nil {
		return flow.StepResult{Error: err}
	}
	if !creds.Active() {
		_, _ = b.SendMessage(state.ChatID, "ERP hisobingiz ulanmagan. /start bilan kalitlarni ulang.", nil)
		return flow.StepResult{Complete: true}
	}

	doc := BuildStockEntry(
		state.GetString(KeyEntryType),
		s.series,
		state.GetString(KeyWarehouse),
		state.GetString(KeyItemCode),
		state.GetString(KeyItemName),
		state.GetString(KeyItemUOM),
		state.GetFloat(KeyQty),
	)

	name, err := s.erp.CreateStockEntry(ctx, creds, doc)
	if err != nil {
		s.log.Warn("create stock entry failed",
			slog.Int64("user_id", state.UserID),
			sl.Err(err),
		)
		_, _ = b.SendMessage(state.ChatID, format.ErrorText(err)+"\n\nMiqdorni qaytadan kiriting:", nil)
		return flow.StepResult{NextStep: StepQty}
	}

	label := "Material kiridi"
	if doc.StockEntryType == entity.StockEntryTypeIssue {
		label = "Material chiqdi"
	}

	var sb strings.Builder
	sb.WriteString("✅ " + label + "\n")
	sb.WriteString("Hujjat: <b>" + html.EscapeString(name) + "</b>\n")
	fmt.Fprintf(&sb, "%s x %g %s\n",
		html.EscapeString(state.GetString(KeyItemName)),
		state.GetFloat(KeyQty),
		html.EscapeString(state.GetString(KeyItemUOM)))
	sb.WriteString("Ombor: " + html.EscapeString(state.GetString(KeyWarehouseName)))

	_, _ = b.SendMessage(state.ChatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: format.DocActionsKeyboard(format.KindEntry, name, entity.DocStatusDraft),
	})

	return flow.StepResult{Complete: true}
}
