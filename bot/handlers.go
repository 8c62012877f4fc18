package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow/ui"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/delivery"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/entry"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/onboarding"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/purchase"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/format"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/parse"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/service/erpnext"
)

// Reply keyboard menu labels.
const (
	menuEntry    = "📥 Kirim / Chiqim"
	menuPurchase = "📦 Qabul qilish"
	menuDelivery = "🚚 Yetkazib berish"
	menuItems    = "🔍 Mahsulotlar"
	menuDocs     = "📄 Hujjatlar"
	menuReset    = "♻️ API ni tozalash"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return ui.ReplyKeyboard([][]string{
		{menuEntry, menuPurchase},
		{menuDelivery},
		{menuItems, menuDocs},
		{menuReset},
	})
}

const helpText = "Men ERPNext ombor hujjatlarini yuritishga yordam beraman.\n\n" +
	"/entry - material kirim yoki chiqim qilish\n" +
	"/purchase - qabul hujjati (Purchase Receipt) yaratish\n" +
	"/delivery - yetkazib berish hujjati (Delivery Note) yaratish\n" +
	"/items - mahsulotlarni qidirish\n" +
	"/cancel - joriy jarayonni bekor qilish\n" +
	"/clear - ERP kalitlarini o'chirish\n\n" +
	"Hujjatlarni ko'rish uchun menyudagi \"" + menuDocs + "\" tugmasidan foydalaning."

func (t *TgBot) handleStart(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if ok, err := t.requirePrivate(bot, ctx); !ok {
		return err
	}

	bg := context.Background()
	t.rememberUser(bg, ctx.EffectiveUser)

	creds, err := t.repo.GetCredentials(bg, ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}

	if creds.Active() {
		_, err = bot.SendMessage(ctx.EffectiveChat.Id,
			"Xush kelibsiz! 👋 Kerakli bo'limni tanlang:",
			&tgbotapi.SendMessageOpts{ReplyMarkup: mainMenuKeyboard()})
		return err
	}

	return t.engine.Start(bg, bot, ctx.EffectiveUser.Id, ctx.EffectiveChat.Id, onboarding.FlowID)
}

func (t *TgBot) handleHelp(bot *tgbotapi.Bot, ctx *ext.Context) error {
	_, err := bot.SendMessage(ctx.EffectiveChat.Id, helpText, nil)
	return err
}

func (t *TgBot) handleItems(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if ok, err := t.requireActive(bot, ctx); !ok {
		return err
	}
	_, err := bot.SendMessage(ctx.EffectiveChat.Id, "Mahsulotlarni qidiring:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: ui.SwitchInlineButton("🔍 Qidirish", "itemlookup "),
	})
	return err
}

func (t *TgBot) handleEntry(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return t.startFlow(bot, ctx, entry.FlowID)
}

func (t *TgBot) handlePurchase(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return t.startFlow(bot, ctx, purchase.FlowID)
}

func (t *TgBot) handleDelivery(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return t.startFlow(bot, ctx, delivery.FlowID)
}

func (t *TgBot) startFlow(bot *tgbotapi.Bot, ctx *ext.Context, flowID flow.FlowID) error {
	if ok, err := t.requirePrivate(bot, ctx); !ok {
		return err
	}

	bg := context.Background()
	t.rememberUser(bg, ctx.EffectiveUser)

	if ok, err := t.requireActive(bot, ctx); !ok {
		return err
	}

	return t.engine.Start(bg, bot, ctx.EffectiveUser.Id, ctx.EffectiveChat.Id, flowID)
}

func (t *TgBot) handleDocs(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if ok, err := t.requireActive(bot, ctx); !ok {
		return err
	}

	entryQuery := "entry "
	purchaseQuery := "purchase "
	deliveryQuery := "delivery "
	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{{Text: "📥 Kirim / Chiqim hujjatlari", SwitchInlineQueryCurrentChat: &entryQuery}},
			{{Text: "📦 Qabul hujjatlari", SwitchInlineQueryCurrentChat: &purchaseQuery}},
			{{Text: "🚚 Yetkazish hujjatlari", SwitchInlineQueryCurrentChat: &deliveryQuery}},
		},
	}

	_, err := bot.SendMessage(ctx.EffectiveChat.Id, "Qaysi hujjatlarni ko'ramiz?", &tgbotapi.SendMessageOpts{
		ReplyMarkup: keyboard,
	})
	return err
}

func (t *TgBot) handleCancel(bot *tgbotapi.Bot, ctx *ext.Context) error {
	bg := context.Background()
	if err := t.engine.ClearState(bg, ctx.EffectiveUser.Id); err != nil {
		return err
	}
	_, err := bot.SendMessage(ctx.EffectiveChat.Id, "Joriy jarayon bekor qilindi.", &tgbotapi.SendMessageOpts{
		ReplyMarkup: mainMenuKeyboard(),
	})
	return err
}

func (t *TgBot) handleClear(bot *tgbotapi.Bot, ctx *ext.Context) error {
	bg := context.Background()

	if err := t.repo.ClearCredentials(bg, ctx.EffectiveUser.Id); err != nil {
		return err
	}
	if err := t.engine.ClearState(bg, ctx.EffectiveUser.Id); err != nil {
		return err
	}

	_, err := bot.SendMessage(ctx.EffectiveChat.Id,
		"ERP kalitlari o'chirildi. Qaytadan ulash uchun /start yuboring.",
		&tgbotapi.SendMessageOpts{ReplyMarkup: ui.RemoveKeyboard()})
	return err
}

// requirePrivate limits stateful operations to private chats, drafts are
// keyed by user id.
func (t *TgBot) requirePrivate(bot *tgbotapi.Bot, ctx *ext.Context) (bool, error) {
	if ctx.EffectiveChat == nil || ctx.EffectiveChat.Type == "private" {
		return true, nil
	}
	_, err := bot.SendMessage(ctx.EffectiveChat.Id,
		"Bu buyruq faqat shaxsiy chatda ishlaydi.", nil)
	return false, err
}

// requireActive checks the user's credentials and prompts for /start when the
// ERP account is not linked yet.
func (t *TgBot) requireActive(bot *tgbotapi.Bot, ctx *ext.Context) (bool, error) {
	creds, err := t.repo.GetCredentials(context.Background(), ctx.EffectiveUser.Id)
	if err != nil {
		return false, err
	}
	if !creds.Active() {
		_, err = bot.SendMessage(ctx.EffectiveChat.Id,
			"Avval ERP hisobingizni ulang: /start", nil)
		return false, err
	}
	return true, nil
}

func (t *TgBot) handleMessage(bot *tgbotapi.Bot, ctx *ext.Context) error {
	bg := context.Background()
	text := ctx.EffectiveMessage.Text

	t.log.Debug("message",
		slog.Int64("user_id", ctx.EffectiveUser.Id),
		slog.String("preview", parse.SafePreview(text)),
	)

	// review picker tokens relayed from inline results
	if _, _, ok := parse.ParseApproveToken(text); ok {
		return t.handleApproveToken(bot, ctx, text)
	}

	switch text {
	case menuItems:
		return t.handleItems(bot, ctx)
	case menuEntry:
		return t.handleEntry(bot, ctx)
	case menuPurchase:
		return t.handlePurchase(bot, ctx)
	case menuDelivery:
		return t.handleDelivery(bot, ctx)
	case menuDocs:
		return t.handleDocs(bot, ctx)
	case menuReset:
		return t.handleClear(bot, ctx)
	}

	active, err := t.engine.HasActiveFlow(bg, ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}
	if active {
		return t.engine.HandleMessage(bg, bot, ctx)
	}

	creds, err := t.repo.GetCredentials(bg, ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}
	if !creds.Active() {
		// half-linked users continue from the pending credential step
		step := onboarding.StepAPIKey
		if creds.StatusOrDefault() == entity.CredStatusPendingSecret {
			step = onboarding.StepAPISecret
		}
		if err := t.engine.StartAt(bg, ctx.EffectiveUser.Id, ctx.EffectiveChat.Id, onboarding.FlowID, step); err != nil {
			return err
		}
		return t.engine.HandleMessage(bg, bot, ctx)
	}

	_, err = bot.SendMessage(ctx.EffectiveChat.Id,
		"Buyruqni tushunmadim. Yordam uchun /help yuboring.", nil)
	return err
}

func (t *TgBot) handleCallback(bot *tgbotapi.Bot, ctx *ext.Context) error {
	data := ctx.CallbackQuery.Data

	if flow.IsFlowCallback(data) {
		return t.engine.HandleCallback(context.Background(), bot, ctx, data)
	}
	if format.IsDocCallback(data) {
		return t.handleDocAction(bot, ctx, data)
	}

	_, err := ctx.CallbackQuery.Answer(bot, nil)
	return err
}

func kindDocType(kind string) string {
	switch kind {
	case format.KindPurchase:
		return erpnext.DocTypePurchaseReceipt
	case format.KindDelivery:
		return erpnext.DocTypeDeliveryNote
	default:
		return erpnext.DocTypeStockEntry
	}
}

func (t *TgBot) handleDocAction(bot *tgbotapi.Bot, ctx *ext.Context, data string) error {
	action, kind, name, ok := format.ParseDocCallback(data)
	if !ok {
		_, err := ctx.CallbackQuery.Answer(bot, nil)
		return err
	}

	bg := context.Background()

	creds, err := t.repo.GetCredentials(bg, ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}
	if !creds.Active() {
		_, err = ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{
			Text:      "Avval /start bilan hisobingizni ulang",
			ShowAlert: true,
		})
		return err
	}

	doctype := kindDocType(kind)

	var (
		confirmation string
		keyboard     *tgbotapi.InlineKeyboardMarkup
	)
	switch action {
	case format.ActionSubmit:
		err = t.erp.SubmitDoc(bg, creds, doctype, name)
		confirmation = "✅ " + name + " tasdiqlandi"
		kb := format.DocActionsKeyboard(kind, name, entity.DocStatusSubmitted)
		keyboard = &kb
	case format.ActionCancel:
		err = t.erp.CancelDoc(bg, creds, doctype, name)
		confirmation = "↩️ " + name + " bekor qilindi"
		kb := format.DocActionsKeyboard(kind, name, entity.DocStatusCancelled)
		keyboard = &kb
	case format.ActionDelete:
		err = t.erp.DeleteDoc(bg, creds, doctype, name)
		confirmation = "🗑 " + name + " o'chirildi"
	default:
		_, err = ctx.CallbackQuery.Answer(bot, nil)
		return err
	}

	if err != nil {
		t.log.Warn("doc action failed",
			slog.Int64("user_id", ctx.EffectiveUser.Id),
			slog.String("action", action),
			slog.String("doc", name),
			sl.Err(err),
		)
		_, _ = ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{
			Text:      "Amal bajarilmadi",
			ShowAlert: true,
		})
		_, sendErr := bot.SendMessage(ctx.EffectiveChat.Id, format.ErrorText(err), nil)
		return sendErr
	}

	_, _ = ctx.CallbackQuery.Answer(bot, nil)

	opts := &tgbotapi.SendMessageOpts{}
	if keyboard != nil {
		opts.ReplyMarkup = *keyboard
	}
	_, err = bot.SendMessage(ctx.EffectiveChat.Id, confirmation, opts)
	return err
}

// handleApproveToken answers a review picker selection with the document
// card and the actions its status allows.
func (t *TgBot) handleApproveToken(bot *tgbotapi.Bot, ctx *ext.Context, text string) error {
	kind, name, _ := parse.ParseApproveToken(text)

	bg := context.Background()

	creds, err := t.repo.GetCredentials(bg, ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}
	if !creds.Active() {
		_, err = bot.SendMessage(ctx.EffectiveChat.Id, "Avval ERP hisobingizni ulang: /start", nil)
		return err
	}

	var (
		card   string
		status entity.DocStatus
	)
	switch kind {
	case format.KindPurchase:
		doc, err := t.erp.GetPurchaseReceipt(bg, creds, name)
		if err != nil {
			_, sendErr := bot.SendMessage(ctx.EffectiveChat.Id, format.ErrorText(err), nil)
			return sendErr
		}
		card, status = format.PurchaseReceiptCard(doc), doc.DocStatus
	case format.KindDelivery:
		doc, err := t.erp.GetDeliveryNote(bg, creds, name)
		if err != nil {
			_, sendErr := bot.SendMessage(ctx.EffectiveChat.Id, format.ErrorText(err), nil)
			return sendErr
		}
		card, status = format.DeliveryNoteCard(doc), doc.DocStatus
	default:
		doc, err := t.erp.GetStockEntry(bg, creds, name)
		if err != nil {
			_, sendErr := bot.SendMessage(ctx.EffectiveChat.Id, format.ErrorText(err), nil)
			return sendErr
		}
		card, status = format.StockEntryCard(doc), doc.DocStatus
	}

	_, err = bot.SendMessage(ctx.EffectiveChat.Id, card, &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: format.DocActionsKeyboard(kind, name, status),
	})
	return err
}
