package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flow"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/delivery"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/entry"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/onboarding"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/bot/flows/purchase"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/config"
	repository "github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/database"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/http-server/api"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/logger"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/secret"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/service/erpnext"
)

func main() {

	configPath := flag.String("conf", "", "path to config file, empty reads the environment")
	logPath := flag.String("log", "", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting stock manager bot", slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	box, err := secret.NewBox(conf.Storage.Passphrase)
	if err != nil {
		lg.With(sl.Err(err)).Error("credential box")
		os.Exit(1)
	}

	db, err := repository.NewSQLiteDB(conf.Storage.Path, box, lg)
	if err != nil {
		lg.With(sl.Err(err)).Error("sqlite storage")
		os.Exit(1)
	}
	defer db.Close()
	lg.With(slog.String("path", conf.Storage.Path)).Info("storage initialized")

	erp := erpnext.NewService(conf, lg)
	lg.With(slog.String("base_url", conf.Erp.BaseURL)).Info("erp client initialized")

	tgBot, err := bot.NewTgBot(conf, db, erp, lg)
	if err != nil {
		lg.With(sl.Err(err)).Error("telegram bot init")
		os.Exit(1)
	}

	if conf.Telegram.AdminId != 0 {
		// relay warnings and errors into the admin chat
		lg = logger.SetupNotifyHandler(lg, tgBot, slog.LevelWarn)
	}

	engine := flow.NewEngine(flow.NewRepositoryStateStorage(db), lg)
	engine.Register(onboarding.New(db, erp, lg))
	engine.Register(entry.New(erp, db, conf.Series.StockEntry, lg))
	engine.Register(purchase.New(erp, db, conf.Series.PurchaseReceipt, lg))
	engine.Register(delivery.New(erp, db, conf.Series.DeliveryNote, lg))
	tgBot.SetFlowEngine(engine)

	if conf.Listen.Enabled {
		go func() {
			if err := api.New(conf, lg, db); err != nil {
				lg.With(sl.Err(err)).Error("api server")
			}
		}()
	}

	// *** blocking start with long polling ***
	if err := tgBot.Start(); err != nil {
		lg.With(sl.Err(err)).Error("telegram bot")
		os.Exit(1)
	}
}
