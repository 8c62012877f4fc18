package purchase

import (
	"context"
	"fmt"
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

const skipLabel = "⏭ O'tkazib yuborish"

// SupplierStep waits for a supplier picked through inline search.
type SupplierStep struct {
	flow.BaseStep
}

func NewSupplierStep() *SupplierStep {
	return &SupplierStep{BaseStep: flow.NewBaseStep(StepSupplier)}
}

func (s *SupplierStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Yetkazib beruvchini tanlang:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SwitchInlineButton("🤝 Yetkazib beruvchi qidirish", "supplier "),
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *SupplierStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	relay, ok := parse.ParsePartyRelay(c.EffectiveMessage.Text)
	if !ok || relay.Tag != parse.TagSupplier {
		_, _ = b.SendMessage(state.ChatID, "Yetkazib beruvchini yuqoridagi tugma orqali qidirib tanlang.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{
		NextStep: StepNote,
		UpdateState: map[string]any{
			KeySupplier:     relay.Code,
			KeySupplierName: relay.Name,
		},
	}
}

// NoteStep asks for the supplier's delivery note number, optional.
type NoteStep struct {
	flow.BaseStep
}

func NewNoteStep() *NoteStep {
	return &NoteStep{BaseStep: flow.NewBaseStep(StepNote)}
}

func (s *NoteStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Yetkazib beruvchi nakladnoy raqami (ixtiyoriy):", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SkipKeyboard(skipLabel),
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *NoteStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	text := strings.TrimSpace(c.EffectiveMessage.Text)
	if parse.IsSkip(text) {
		text = ""
	}
	return flow.StepResult{NextStep: StepDate, UpdateState: map[string]any{KeyNote: text}}
}

func (s *NoteStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return flow.StepResult{}
	}
	_, _ = c.CallbackQuery.Answer(b, nil)
	return flow.StepResult{NextStep: StepDate, UpdateState: map[string]any{KeyNote: ""}}
}

// DateStep asks for the posting date, optional.
type DateStep struct {
	flow.BaseStep
}

func NewDateStep() *DateStep {
	return &DateStep{BaseStep: flow.NewBaseStep(StepDate)}
}

func (s *DateStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID,
		"Sanani kiriting (YYYY-MM-DD). Bugungi sana uchun o'tkazib yuboring:",
		&tgbotapi.SendMessageOpts{ReplyMarkup: ui.SkipKeyboard(skipLabel)})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *DateStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	text := strings.TrimSpace(c.EffectiveMessage.Text)
	if parse.IsSkip(text) {
		return flow.StepResult{NextStep: StepTime, UpdateState: map[string]any{KeyDate: ""}}
	}

	date, err := parse.ParseDate(text)
	if err != nil {
		_, _ = b.SendMessage(state.ChatID, "Sana formati noto'g'ri. YYYY-MM-DD ko'rinishida kiriting, masalan 2026-08-30.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{NextStep: StepTime, UpdateState: map[string]any{KeyDate: date}}
}

func (s *DateStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return flow.StepResult{}
	}
	_, _ = c.CallbackQuery.Answer(b, nil)
	return flow.StepResult{NextStep: StepTime, UpdateState: map[string]any{KeyDate: ""}}
}

// TimeStep asks for the posting time, optional.
type TimeStep struct {
	flow.BaseStep
}

func NewTimeStep() *TimeStep {
	return &TimeStep{BaseStep: flow.NewBaseStep(StepTime)}
}

func (s *TimeStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID,
		"Vaqtni kiriting (HH:MM). Hozirgi vaqt uchun o'tkazib yuboring:",
		&tgbotapi.SendMessageOpts{ReplyMarkup: ui.SkipKeyboard(skipLabel)})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *TimeStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	text := strings.TrimSpace(c.EffectiveMessage.Text)
	if parse.IsSkip(text) {
		return flow.StepResult{NextStep: StepPutaway, UpdateState: map[string]any{KeyTime: ""}}
	}

	clock, err := parse.ParseClock(text)
	if err != nil {
		_, _ = b.SendMessage(state.ChatID, "Vaqt formati noto'g'ri. HH:MM ko'rinishida kiriting, masalan 09:30.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{NextStep: StepPutaway, UpdateState: map[string]any{KeyTime: clock}}
}

func (s *TimeStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return flow.StepResult{}
	}
	_, _ = c.CallbackQuery.Answer(b, nil)
	return flow.StepResult{NextStep: StepPutaway, UpdateState: map[string]any{KeyTime: ""}}
}

// PutawayStep asks whether to apply the ERP's putaway rule.
type PutawayStep struct {
	flow.BaseStep
}

func NewPutawayStep() *PutawayStep {
	return &PutawayStep{BaseStep: flow.NewBaseStep(StepPutaway)}
}

func (s *PutawayStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Joylashtirish (putaway) qoidasi qo'llansinmi?", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.YesNoKeyboard("Ha", "Yo'q"),
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *PutawayStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil || (!cb.IsYes() && !cb.IsNo()) {
		return flow.StepResult{}
	}
	_, _ = c.CallbackQuery.Answer(b, nil)
	return flow.StepResult{NextStep: StepIsReturn, UpdateState: map[string]any{KeyPutaway: cb.IsYes()}}
}

func (s *PutawayStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	value, ok := parse.YesNo(c.EffectiveMessage.Text)
	if !ok {
		_, _ = b.SendMessage(state.ChatID, "Ha yoki yo'q deb javob bering.", nil)
		return flow.StepResult{}
	}
	return flow.StepResult{NextStep: StepIsReturn, UpdateState: map[string]any{KeyPutaway: value}}
}

// IsReturnStep asks whether this is a return receipt.
type IsReturnStep struct {
	flow.BaseStep
}

func NewIsReturnStep() *IsReturnStep {
	return &IsReturnStep{BaseStep: flow.NewBaseStep(StepIsReturn)}
}

func (s *IsReturnStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Bu qaytarish hujjatimi?", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.YesNoKeyboard("Ha", "Yo'q"),
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *IsReturnStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil || (!cb.IsYes() && !cb.IsNo()) {
		return flow.StepResult{}
	}
	_, _ = c.CallbackQuery.Answer(b, nil)
	return flow.StepResult{NextStep: StepAcceptedWh, UpdateState: map[string]any{KeyIsReturn: cb.IsYes()}}
}

func (s *IsReturnStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	value, ok := parse.YesNo(c.EffectiveMessage.Text)
	if !ok {
		_, _ = b.SendMessage(state.ChatID, "Ha yoki yo'q deb javob bering.", nil)
		return flow.StepResult{}
	}
	return flow.StepResult{NextStep: StepAcceptedWh, UpdateState: map[string]any{KeyIsReturn: value}}
}

// AcceptedWhStep waits for the receiving warehouse.
type AcceptedWhStep struct {
	flow.BaseStep
}

func NewAcceptedWhStep() *AcceptedWhStep {
	return &AcceptedWhStep{BaseStep: flow.NewBaseStep(StepAcceptedWh)}
}

func (s *AcceptedWhStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Qabul qilish omborini tanlang:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SwitchInlineButton("🏬 Ombor qidirish", "entrywarehouse "),
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *AcceptedWhStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	relay, ok := parse.ParseWarehouseRelay(c.EffectiveMessage.Text)
	if !ok {
		_, _ = b.SendMessage(state.ChatID, "Omborni yuqoridagi tugma orqali qidirib tanlang.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{
		NextStep: StepRejectedWh,
		UpdateState: map[string]any{
			KeyWarehouse:     relay.Code,
			KeyWarehouseName: relay.Name,
		},
	}
}

// RejectedWhStep waits for the optional rejected-goods warehouse.
type RejectedWhStep struct {
	flow.BaseStep
}

func NewRejectedWhStep() *RejectedWhStep {
	return &RejectedWhStep{BaseStep: flow.NewBaseStep(StepRejectedWh)}
}

func (s *RejectedWhStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	query := "entrywarehouse "
	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{{Text: "🏬 Ombor qidirish", SwitchInlineQueryCurrentChat: &query}},
			{{Text: skipLabel, CallbackData: flow.BuildCallback(flow.ActionSkip)}},
		},
	}
	_, err := b.SendMessage(state.ChatID, "Rad etilgan mahsulotlar ombori (ixtiyoriy):", &tgbotapi.SendMessageOpts{
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *RejectedWhStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	text := c.EffectiveMessage.Text
	if parse.IsSkip(text) {
		return flow.StepResult{NextStep: StepItemsMenu, UpdateState: map[string]any{KeyRejectedWh: ""}}
	}

	relay, ok := parse.ParseWarehouseRelay(text)
	if !ok {
		_, _ = b.SendMessage(state.ChatID, "Omborni tugma orqali tanlang yoki o'tkazib yuboring.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{NextStep: StepItemsMenu, UpdateState: map[string]any{KeyRejectedWh: relay.Code}}
}

func (s *RejectedWhStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return flow.StepResult{}
	}
	_, _ = c.CallbackQuery.Answer(b, nil)
	return flow.StepResult{NextStep: StepItemsMenu, UpdateState: map[string]any{KeyRejectedWh: ""}}
}

// ItemsMenuStep shows collected lines and offers add/finish/cancel.
type ItemsMenuStep struct {
	flow.BaseStep
}

func NewItemsMenuStep() *ItemsMenuStep {
	return &ItemsMenuStep{BaseStep: flow.NewBaseStep(StepItemsMenu)}
}

func (s *ItemsMenuStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	items := ItemsFromState(state.Data[KeyItems])

	var sb strings.Builder
	sb.WriteString("🧾 Qabul hujjati\n")
	fmt.Fprintf(&sb, "Yetkazib beruvchi: %s\n", state.GetString(KeySupplierName))
	fmt.Fprintf(&sb, "Ombor: %s\n", state.GetString(KeyWarehouseName))
	if len(items) == 0 {
		sb.WriteString("\nHali mahsulot qo'shilmagan.")
	} else {
		sb.WriteString("\nMahsulotlar:")
		for i, item := range items {
			fmt.Fprintf(&sb, "\n%d. %s x %g", i+1, item.ItemName, item.Qty)
			if item.RejectedQty > 0 {
				fmt.Fprintf(&sb, " (rad: %g)", item.RejectedQty)
			}
		}
	}

	query := "pritem "
	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{{Text: "➕ Mahsulot qo'shish", SwitchInlineQueryCurrentChat: &query}},
			{{Text: "✅ Yakunlash", CallbackData: flow.BuildCallback(flow.ActionMenu, "finish")}},
			{{Text: "❌ Bekor qilish", CallbackData: flow.BuildCallback(flow.ActionCancel)}},
		},
	}

	_, err := b.SendMessage(state.ChatID, sb.String(), &tgbotapi.SendMessageOpts{ReplyMarkup: keyboard})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *ItemsMenuStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	relay, ok := parse.ParseItemRelay(c.EffectiveMessage.Text)
	if !ok || relay.Tag != parse.TagPurchaseItem {
		_, _ = b.SendMessage(state.ChatID, "Mahsulot qo'shish uchun qidiruv tugmasidan foydalaning.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{
		NextStep: StepItemQty,
		UpdateState: map[string]any{
			KeyPendingCode: relay.Code,
			KeyPendingName: relay.Name,
			KeyPendingUOM:  relay.UOM,
		},
	}
}

func (s *ItemsMenuStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil {
		return flow.StepResult{}
	}

	switch {
	case cb.IsCancel():
		_, _ = c.CallbackQuery.Answer(b, nil)
		_, _ = b.SendMessage(state.ChatID, "Qabul hujjati bekor qilindi.", nil)
		return flow.StepResult{Complete: true}
	case cb.MenuID() == "finish":
		items := ItemsFromState(state.Data[KeyItems])
		if len(items) == 0 {
			_, _ = c.CallbackQuery.Answer(b, &tgbotapi.AnswerCallbackQueryOpts{
				Text:      "Avval kamida bitta mahsulot qo'shing",
				ShowAlert: true,
			})
			return flow.StepResult{}
		}
		_, _ = c.CallbackQuery.Answer(b, nil)
		return flow.StepResult{NextStep: StepSubmit}
	}

	return flow.StepResult{}
}

// ItemQtyStep asks for the accepted quantity of the pending line.
type ItemQtyStep struct {
	flow.BaseStep
}

func NewItemQtyStep() *ItemQtyStep {
	return &ItemQtyStep{BaseStep: flow.NewBaseStep(StepItemQty)}
}

func (s *ItemQtyStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	prompt := fmt.Sprintf("%s uchun qabul qilingan miqdorni kiriting", state.GetString(KeyPendingName))
	if uom := state.GetString(KeyPendingUOM); uom != "" {
		prompt += " (" + uom + ")"
	}
	_, err := b.SendMessage(state.ChatID, prompt+":", nil)
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *ItemQtyStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	qty, err := parse.ParseQty(c.EffectiveMessage.Text)
	if err != nil || qty <= 0 {
		_, _ = b.SendMessage(state.ChatID, "Miqdor musbat son bo'lishi kerak. Qaytadan kiriting.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{NextStep: StepItemRejected, UpdateState: map[string]any{KeyPendingQty: qty}}
}

// ItemRejectedStep asks for the rejected quantity, zero when skipped.
type ItemRejectedStep struct {
	flow.BaseStep
}

func NewItemRejectedStep() *ItemRejectedStep {
	return &ItemRejectedStep{BaseStep: flow.NewBaseStep(StepItemRejected)}
}

func (s *ItemRejectedStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Rad etilgan miqdor (yo'q bo'lsa o'tkazib yuboring):", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SkipKeyboard(skipLabel),
	})
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *ItemRejectedStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	text := c.EffectiveMessage.Text
	if parse.IsSkip(text) {
		return flow.StepResult{NextStep: StepItemRate, UpdateState: map[string]any{KeyPendingRejected: 0.0}}
	}

	qty, err := parse.ParseQty(text)
	if err != nil || qty < 0 {
		_, _ = b.SendMessage(state.ChatID, "Miqdor manfiy bo'lmasligi kerak. Qaytadan kiriting.", nil)
		return flow.StepResult{}
	}

	return flow.StepResult{NextStep: StepItemRate, UpdateState: map[string]any{KeyPendingRejected: qty}}
}

func (s *ItemRejectedStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState, data string) flow.StepResult {
	cb := flow.ParseCallback(data)
	if cb == nil || !cb.IsSkip() {
		return flow.StepResult{}
	}
	_, _ = c.CallbackQuery.Answer(b, nil)
	return flow.StepResult{NextStep: StepItemRate, UpdateState: map[string]any{KeyPendingRejected: 0.0}}
}

// ItemRateStep asks for the unit rate and closes the pending line.
type ItemRateStep struct {
	flow.BaseStep
}

func NewItemRateStep() *ItemRateStep {
	return &ItemRateStep{BaseStep: flow.NewBaseStep(StepItemRate)}
}

func (s *ItemRateStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *flow.UserState) flow.StepResult {
	_, err := b.SendMessage(state.ChatID, "Birlik narxini kiriting:", nil)
	if err != nil {
		return flow.StepResult{Error: err}
	}
	return flow.StepResult{}
}

func (s *ItemRateStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *flow.UserState) flow.StepResult {
	rate, err := parse.ParseQty(c.EffectiveMessage.Text)
	if err != nil || rate < 0 {
		_, _ = b.SendMessage(state.ChatID, "Narx manfiy bo'lmasligi kerak. Qaytadan kiriting.", nil)
		return flow.StepResult{}
	}

	items := AppendItem(state.Data[KeyItems], Item{
		ItemCode:    state.GetString(KeyPendingCode),
		ItemName:    state.GetString(KeyPendingName),
		UOM:         state.GetString(KeyPendingUOM),
		Qty:         state.GetFloat(KeyPendingQty),
		RejectedQty: state.GetFloat(KeyPendingRejected),
		Rate:        rate,
	})

	return flow.StepResult{
		NextStep: StepItemsMenu,
		UpdateState: map[string]any{
			KeyItems:           items,
			KeyPendingCode:     "",
			KeyPendingName:     "",
			KeyPendingUOM:      "",
			KeyPendingQty:      0.0,
			KeyPendingRejected: 0.0,
		},
	}
}

// SubmitStep creates the Purchase Receipt in the ERP.
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
		log:      log.With(sl.Module("purchase")),
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

	doc := BuildPurchaseReceipt(Header{
		Supplier:     state.GetString(KeySupplier),
		Note:         state.GetString(KeyNote),
		Date:         state.GetString(KeyDate),
		Time:         state.GetString(KeyTime),
		Putaway:      state.GetBool(KeyPutaway),
		IsReturn:     state.GetBool(KeyIsReturn),
		Warehouse:    state.GetString(KeyWarehouse),
		RejectedWh:   state.GetString(KeyRejectedWh),
		NamingSeries: s.series,
	}, ItemsFromState(state.Data[KeyItems]))

	name, err := s.erp.CreatePurchaseReceipt(ctx, creds, doc)
	if err != nil {
		s.log.Warn("create purchase receipt failed",
			slog.Int64("user_id", state.UserID),
			sl.Err(err),
		)
		_, _ = b.SendMessage(state.ChatID, format.ErrorText(err), nil)
		return flow.StepResult{NextStep: StepItemsMenu}
	}

	doc.Name = name
	_, _ = b.SendMessage(state.ChatID, "✅ Qabul hujjati yaratildi\n\n"+format.PurchaseReceiptCard(doc), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: format.DocActionsKeyboard(format.KindPurchase, name, entity.DocStatusDraft),
	})

	return flow.StepResult{Complete: true}
}
