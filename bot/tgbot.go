package bot

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/entity"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/config"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

// Repository is the part of the local store the router needs.
type Repository interface {
	SaveUser(ctx context.Context, user *entity.User) error
	GetCredentials(ctx context.Context, telegramId int64) (*entity.Credentials, error)
	ClearCredentials(ctx context.Context, telegramId int64) error
}

// ErpService is the part of the ERP client the router needs: directory
// search for inline results, document browse and the lifecycle actions.
type ErpService interface {
	SearchItems(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.Item, error)
	SearchWarehouses(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.Warehouse, error)
	SearchSuppliers(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.Supplier, error)
	SearchCustomers(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.Customer, error)

	ListStockEntries(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.StockEntry, error)
	ListPurchaseReceipts(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.PurchaseReceipt, error)
	ListDeliveryNotes(ctx context.Context, creds *entity.Credentials, query string, limit int) ([]entity.DeliveryNote, error)

	GetStockEntry(ctx context.Context, creds *entity.Credentials, name string) (*entity.StockEntry, error)
	GetPurchaseReceipt(ctx context.Context, creds *entity.Credentials, name string) (*entity.PurchaseReceipt, error)
	GetDeliveryNote(ctx context.Context, creds *entity.Credentials, name string) (*entity.DeliveryNote, error)

	SubmitDoc(ctx context.Context, creds *entity.Credentials, doctype, name string) error
	CancelDoc(ctx context.Context, creds *entity.Credentials, doctype, name string) error
	DeleteDoc(ctx context.Context, creds *entity.Credentials, doctype, name string) error
}

// TgBot routes Telegram updates: commands, the reply keyboard menu, inline
// queries, flow callbacks and document action buttons.
type TgBot struct {
	log    *slog.Logger
	api    *tgbotapi.Bot
	engine *flow.Engine
	repo   Repository
	erp    ErpService
	conf   *config.Config
}

func NewTgBot(conf *config.Config, repo Repository, erp ErpService, logger *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBot(conf.Telegram.Token, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}

	return &TgBot{
		log:  logger.With(sl.Module("tgbot")),
		api:  api,
		repo: repo,
		erp:  erp,
		conf: conf,
	}, nil
}

// Api exposes the underlying bot client for wiring.
func (t *TgBot) Api() *tgbotapi.Bot {
	return t.api
}

// SetFlowEngine sets the conversation engine for the bot.
func (t *TgBot) SetFlowEngine(engine *flow.Engine) {
	t.engine = engine
}

// Notify sends a text to the configured admin chat, used by the log relay.
func (t *TgBot) Notify(text string) {
	if t.conf.Telegram.AdminId == 0 {
		return
	}
	if len(text) > 4000 {
		text = text[:4000]
	}
	if _, err := t.api.SendMessage(t.conf.Telegram.AdminId, text, nil); err != nil {
		t.log.Warn("sending admin message", sl.Err(err))
	}
}

// Start begins polling for updates and handling them.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(bot *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Println("an error occurred while handling update:", err.Error())
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("start", t.handleStart))
	dispatcher.AddHandler(handlers.NewCommand("help", t.handleHelp))
	dispatcher.AddHandler(handlers.NewCommand("items", t.handleItems))
	dispatcher.AddHandler(handlers.NewCommand("entry", t.handleEntry))
	dispatcher.AddHandler(handlers.NewCommand("purchase", t.handlePurchase))
	dispatcher.AddHandler(handlers.NewCommand("delivery", t.handleDelivery))
	dispatcher.AddHandler(handlers.NewCommand("cancel", t.handleCancel))
	dispatcher.AddHandler(handlers.NewCommand("clear", t.handleClear))
	dispatcher.AddHandler(handlers.NewInlineQuery(anyInlineQuery, t.handleInlineQuery))
	dispatcher.AddHandler(handlers.NewCallback(anyCallback, t.handleCallback))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, t.handleMessage))

	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.log.Info("bot started", slog.String("username", t.api.User.Username))

	updater.Idle()

	return nil
}

func anyInlineQuery(iq *tgbotapi.InlineQuery) bool {
	return true
}

func anyCallback(cq *tgbotapi.CallbackQuery) bool {
	return true
}

// rememberUser refreshes the user's profile row on every update.
func (t *TgBot) rememberUser(ctx context.Context, user *tgbotapi.User) {
	if user == nil {
		return
	}
	err := t.repo.SaveUser(ctx, &entity.User{
		TelegramId: user.Id,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
	})
	if err != nil {
		t.log.Warn("saving user", slog.Int64("user_id", user.Id), sl.Err(err))
	}
}
