package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/google/uuid"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/format"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/parse"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

// Inline query modes. The first word of the query selects the mode, the rest
// is the search text. A query without a known mode word searches items.
const (
	modeItemLookup      = "itemlookup"
	modeEntryItem       = "entryitem"
	modePurchaseItem    = "pritem"
	modeDeliveryItem    = "dnitem"
	modeEntryWarehouse  = "entrywarehouse"
	modeWarehouse       = "warehouse"
	modeSupplier        = "supplier"
	modeCustomer        = "dncustomer"
	modeEntryBrowse     = "entry"
	modePurchaseBrowse  = "purchase"
	modeDeliveryBrowse  = "delivery"
	modeEntryApprove    = "entryapprove"
	modeApprove         = "approve"
	modePurchaseApprove = "purchaseapprove"
	modePrApprove       = "prapprove"
	modeDeliveryApprove = "deliveryapprove"
	modeDnApprove       = "dnapprove"
)

func splitInlineQuery(query string) (mode, text string) {
	query = strings.TrimSpace(query)
	mode, text, found := strings.Cut(query, " ")
	if !found {
		switch strings.ToLower(query) {
		case modeItemLookup, modeEntryItem, modePurchaseItem, modeDeliveryItem,
			modeEntryWarehouse, modeWarehouse, modeSupplier, modeCustomer,
			modeEntryBrowse, modePurchaseBrowse, modeDeliveryBrowse,
			modeEntryApprove, modeApprove,
			modePurchaseApprove, modePrApprove,
			modeDeliveryApprove, modeDnApprove:
			return strings.ToLower(query), ""
		}
		return modeItemLookup, query
	}

	switch strings.ToLower(mode) {
	case modeItemLookup, modeEntryItem, modePurchaseItem, modeDeliveryItem,
		modeEntryWarehouse, modeWarehouse, modeSupplier, modeCustomer,
		modeEntryBrowse, modePurchaseBrowse, modeDeliveryBrowse,
		modeEntryApprove, modeApprove,
		modePurchaseApprove, modePrApprove,
		modeDeliveryApprove, modeDnApprove:
		return strings.ToLower(mode), strings.TrimSpace(text)
	}
	return modeItemLookup, query
}

func (t *TgBot) handleInlineQuery(bot *tgbotapi.Bot, ctx *ext.Context) error {
	bg := context.Background()
	iq := ctx.InlineQuery

	creds, err := t.repo.GetCredentials(bg, iq.From.Id)
	if err != nil {
		return err
	}
	if !creds.Active() {
		_, err = iq.Answer(bot, nil, &tgbotapi.AnswerInlineQueryOpts{
			IsPersonal: true,
			CacheTime:  5,
			Button: &tgbotapi.InlineQueryResultsButton{
				Text:           "Ulanish uchun /start bosing",
				StartParameter: "link",
			},
		})
		return err
	}

	mode, text := splitInlineQuery(iq.Query)

	var results []tgbotapi.InlineQueryResult
	switch mode {
	case modeItemLookup:
		results, err = t.itemResults(bg, creds, "", text)
	case modeEntryItem:
		results, err = t.itemResults(bg, creds, parse.TagEntryItem, text)
	case modePurchaseItem:
		results, err = t.itemResults(bg, creds, parse.TagPurchaseItem, text)
	case modeDeliveryItem:
		results, err = t.itemResults(bg, creds, parse.TagDeliveryItem, text)
	case modeEntryWarehouse, modeWarehouse:
		results, err = t.warehouseResults(bg, creds, text)
	case modeSupplier:
		results, err = t.partyResults(bg, creds, parse.TagSupplier, text)
	case modeCustomer:
		results, err = t.partyResults(bg, creds, parse.TagCustomer, text)
	case modeEntryBrowse:
		results, err = t.entryResults(bg, creds, text, false)
	case modeEntryApprove, modeApprove:
		results, err = t.entryResults(bg, creds, text, true)
	case modePurchaseBrowse:
		results, err = t.purchaseResults(bg, creds, text, false)
	case modePurchaseApprove, modePrApprove:
		results, err = t.purchaseResults(bg, creds, text, true)
	case modeDeliveryBrowse:
		results, err = t.deliveryResults(bg, creds, text, false)
	case modeDeliveryApprove, modeDnApprove:
		results, err = t.deliveryResults(bg, creds, text, true)
	}

	if err != nil {
		t.log.Warn("inline query failed",
			slog.Int64("user_id", iq.From.Id),
			slog.String("mode", mode),
			sl.Err(err),
		)
		_, answerErr := iq.Answer(bot, nil, &tgbotapi.AnswerInlineQueryOpts{
			IsPersonal: true,
			CacheTime:  3,
		})
		return answerErr
	}

	_, err = iq.Answer(bot, results, &tgbotapi.AnswerInlineQueryOpts{
		IsPersonal: true,
		CacheTime:  0,
	})
	return err
}

// itemResults searches items. With a tag the selection is relayed into the
// chat for the flow that asked for it, without a tag it is a plain lookup.
func (t *TgBot) itemResults(ctx context.Context, creds *entity.Credentials, tag, query string) ([]tgbotapi.InlineQueryResult, error) {
	items, err := t.erp.SearchItems(ctx, creds, query, t.conf.Limits.Items)
	if err != nil {
		return nil, err
	}

	results := make([]tgbotapi.InlineQueryResult, 0, len(items))
	for _, item := range items {
		var message string
		if tag == "" {
			message = fmt.Sprintf("📦 %s\nItem Code: %s\nUOM: %s", item.DisplayName(), item.ItemCode, item.StockUom)
		} else {
			message = parse.ItemRelayMessage(tag, item.DisplayName(), item.ItemCode, item.StockUom)
		}

		description := item.ItemCode
		if item.ItemGroup != "" {
			description += " • " + item.ItemGroup
		}

		results = append(results, tgbotapi.InlineQueryResultArticle{
			Id:          uuid.NewString(),
			Title:       item.DisplayName(),
			Description: description,
			InputMessageContent: tgbotapi.InputTextMessageContent{
				MessageText: message,
			},
		})
	}
	return results, nil
}

func (t *TgBot) warehouseResults(ctx context.Context, creds *entity.Credentials, query string) ([]tgbotapi.InlineQueryResult, error) {
	warehouses, err := t.erp.SearchWarehouses(ctx, creds, query, t.conf.Limits.Warehouses)
	if err != nil {
		return nil, err
	}

	results := make([]tgbotapi.InlineQueryResult, 0, len(warehouses))
	for _, wh := range warehouses {
		results = append(results, tgbotapi.InlineQueryResultArticle{
			Id:          uuid.NewString(),
			Title:       wh.DisplayName(),
			Description: wh.Name,
			InputMessageContent: tgbotapi.InputTextMessageContent{
				MessageText: parse.WarehouseRelayMessage(wh.DisplayName(), wh.Name),
			},
		})
	}
	return results, nil
}

func (t *TgBot) partyResults(ctx context.Context, creds *entity.Credentials, tag, query string) ([]tgbotapi.InlineQueryResult, error) {
	type party struct {
		name string
		code string
		desc string
	}

	var parties []party
	if tag == parse.TagSupplier {
		suppliers, err := t.erp.SearchSuppliers(ctx, creds, query, t.conf.Limits.Suppliers)
		if err != nil {
			return nil, err
		}
		for _, s := range suppliers {
			parties = append(parties, party{name: s.DisplayName(), code: s.Name, desc: s.SupplierGroup})
		}
	} else {
		customers, err := t.erp.SearchCustomers(ctx, creds, query, t.conf.Limits.Customers)
		if err != nil {
			return nil, err
		}
		for _, c := range customers {
			parties = append(parties, party{name: c.DisplayName(), code: c.Name, desc: c.CustomerGroup})
		}
	}

	results := make([]tgbotapi.InlineQueryResult, 0, len(parties))
	for _, p := range parties {
		results = append(results, tgbotapi.InlineQueryResultArticle{
			Id:          uuid.NewString(),
			Title:       p.name,
			Description: p.desc,
			InputMessageContent: tgbotapi.InputTextMessageContent{
				MessageText: parse.PartyRelayMessage(tag, p.name, p.code),
			},
		})
	}
	return results, nil
}

// entryResults lists recent stock entries. In approve mode picking a result
// sends a short token the message handler answers with the document card.
func (t *TgBot) entryResults(ctx context.Context, creds *entity.Credentials, query string, approve bool) ([]tgbotapi.InlineQueryResult, error) {
	entries, err := t.erp.ListStockEntries(ctx, creds, query, t.conf.Limits.Documents)
	if err != nil {
		return nil, err
	}

	results := make([]tgbotapi.InlineQueryResult, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		results = append(results, docResult(
			e.Name,
			e.StockEntryType+" • "+e.DocStatus.Label(),
			format.KindEntry,
			format.StockEntryCard(e),
			approve,
		))
	}
	return results, nil
}

func (t *TgBot) purchaseResults(ctx context.Context, creds *entity.Credentials, query string, approve bool) ([]tgbotapi.InlineQueryResult, error) {
	receipts, err := t.erp.ListPurchaseReceipts(ctx, creds, query, t.conf.Limits.Documents)
	if err != nil {
		return nil, err
	}

	results := make([]tgbotapi.InlineQueryResult, 0, len(receipts))
	for i := range receipts {
		r := &receipts[i]
		results = append(results, docResult(
			r.Name,
			r.Supplier+" • "+r.DocStatus.Label(),
			format.KindPurchase,
			format.PurchaseReceiptCard(r),
			approve,
		))
	}
	return results, nil
}

func (t *TgBot) deliveryResults(ctx context.Context, creds *entity.Credentials, query string, approve bool) ([]tgbotapi.InlineQueryResult, error) {
	notes, err := t.erp.ListDeliveryNotes(ctx, creds, query, t.conf.Limits.Documents)
	if err != nil {
		return nil, err
	}

	results := make([]tgbotapi.InlineQueryResult, 0, len(notes))
	for i := range notes {
		n := &notes[i]
		results = append(results, docResult(
			n.Name,
			n.Customer+" • "+n.DocStatus.Label(),
			format.KindDelivery,
			format.DeliveryNoteCard(n),
			approve,
		))
	}
	return results, nil
}

func docResult(name, description, kind, card string, approve bool) tgbotapi.InlineQueryResultArticle {
	content := tgbotapi.InputTextMessageContent{
		MessageText: card,
		ParseMode:   "HTML",
	}
	if approve {
		content = tgbotapi.InputTextMessageContent{
			MessageText: parse.ApproveTokenMessage(kind, name),
		}
	}

	return tgbotapi.InlineQueryResultArticle{
		Id:                  uuid.NewString(),
		Title:               name,
		Description:         description,
		InputMessageContent: content,
	}
}
