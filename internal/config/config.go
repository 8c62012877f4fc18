package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Telegram struct {
		Token   string `yaml:"token" env:"STOCK_BOT_TOKEN" env-default:"" validate:"required"`
		AdminId int64  `yaml:"admin_id" env:"STOCK_BOT_ADMIN_ID" env-default:"0"`
	} `yaml:"telegram"`
	Erp struct {
		BaseURL        string `yaml:"base_url" env:"FRAPPE_BASE_URL" env-default:"" validate:"required,url"`
		VerifyEndpoint string `yaml:"verify_endpoint" env:"ERP_VERIFY_ENDPOINT" env-default:"/api/method/frappe.auth.get_logged_user"`
		Company        string `yaml:"company" env:"ERP_COMPANY" env-default:"accord"`
	} `yaml:"erp"`
	Limits struct {
		Items      int `yaml:"items" env:"ITEM_LIMIT" env-default:"25" validate:"min=1"`
		Warehouses int `yaml:"warehouses" env:"WAREHOUSE_LIMIT" env-default:"25" validate:"min=1"`
		Suppliers  int `yaml:"suppliers" env:"SUPPLIER_LIMIT" env-default:"25" validate:"min=1"`
		Customers  int `yaml:"customers" env:"CUSTOMER_LIMIT" env-default:"25" validate:"min=1"`
		Documents  int `yaml:"documents" env:"DOCUMENT_LIMIT" env-default:"25" validate:"min=1"`
	} `yaml:"limits"`
	Series struct {
		StockEntry      string `yaml:"stock_entry" env:"STOCK_ENTRY_SERIES" env-default:"MAT-STE-.YYYY.-.#####"`
		PurchaseReceipt string `yaml:"purchase_receipt" env:"PURCHASE_RECEIPT_SERIES" env-default:"MAT-PRE-.YYYY.-.#####"`
		DeliveryNote    string `yaml:"delivery_note" env:"DELIVERY_NOTE_SERIES" env-default:"MAT-DN-.YYYY.-.#####"`
	} `yaml:"series"`
	Storage struct {
		Path       string `yaml:"path" env:"STOCK_BOT_DB_PATH" env-default:"stock_manager_bot.sqlite3"`
		Passphrase string `yaml:"passphrase" env:"STOCK_BOT_SECRET" env-default:"" validate:"required"`
	} `yaml:"storage"`
	Listen struct {
		Enabled bool   `yaml:"enabled" env:"LISTEN_ENABLED" env-default:"false"`
		BindIP  string `yaml:"bind_ip" env:"LISTEN_BIND_IP" env-default:"127.0.0.1"`
		Port    string `yaml:"port" env:"LISTEN_PORT" env-default:"9100"`
		ApiKey  string `yaml:"key" env:"LISTEN_API_KEY" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

// MustLoad reads the config once. An empty path falls back to environment
// variables only.
func MustLoad(path string) *Config {
	once.Do(func() {
		instance = &Config{}

		var err error
		if path != "" {
			err = cleanenv.ReadConfig(path, instance)
		} else {
			err = cleanenv.ReadEnv(instance)
		}
		if err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			log.Fatal(fmt.Errorf("%s; %s", err, desc))
		}

		if err := validator.New().Struct(instance); err != nil {
			log.Fatal(fmt.Errorf("config validation: %w", err))
		}
	})
	return instance
}
