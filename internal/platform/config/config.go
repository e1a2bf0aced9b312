package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// AccountCodes holds the well-known chart-of-accounts codes the derived-entry
// generators and the reconciliation engine resolve against. These are
// deployment configuration, not constants: each branch's chart may number
// them differently.
type AccountCodes struct {
	Inventory             string
	VATInput              string
	AccountsPayable       string
	Cash                  string
	Bank                  string
	InstallmentReceivable string
	LateFeeIncome         string
	ReconciliationOffset  string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	RateLimit     string // ulule/limiter format, e.g. "300-M"

	// BalanceEpsilon is the tolerated debit/credit difference when validating
	// an entry, absorbing float rounding from upstream systems.
	BalanceEpsilon decimal.Decimal
	// VarianceThreshold is the maximum variance at which a reconciliation may
	// be completed.
	VarianceThreshold decimal.Decimal
	// LateFeePercent is applied to late installment payments, e.g. "2.5".
	LateFeePercent decimal.Decimal

	AccountCodes AccountCodes
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("BALANCE_EPSILON", "0.01")
	viper.SetDefault("VARIANCE_THRESHOLD", "0.01")
	viper.SetDefault("LATE_FEE_PERCENT", "2.5")
	viper.SetDefault("ACCOUNT_CODE_INVENTORY", "1300")
	viper.SetDefault("ACCOUNT_CODE_VAT_INPUT", "1400")
	viper.SetDefault("ACCOUNT_CODE_ACCOUNTS_PAYABLE", "2100")
	viper.SetDefault("ACCOUNT_CODE_CASH", "1000")
	viper.SetDefault("ACCOUNT_CODE_BANK", "1010")
	viper.SetDefault("ACCOUNT_CODE_INSTALLMENT_RECEIVABLE", "1200")
	viper.SetDefault("ACCOUNT_CODE_LATE_FEE_INCOME", "4200")
	viper.SetDefault("ACCOUNT_CODE_RECON_OFFSET", "3900")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.BalanceEpsilon = mustDecimal("BALANCE_EPSILON", "0.01")
	cfg.VarianceThreshold = mustDecimal("VARIANCE_THRESHOLD", "0.01")
	cfg.LateFeePercent = mustDecimal("LATE_FEE_PERCENT", "2.5")

	cfg.AccountCodes = AccountCodes{
		Inventory:             viper.GetString("ACCOUNT_CODE_INVENTORY"),
		VATInput:              viper.GetString("ACCOUNT_CODE_VAT_INPUT"),
		AccountsPayable:       viper.GetString("ACCOUNT_CODE_ACCOUNTS_PAYABLE"),
		Cash:                  viper.GetString("ACCOUNT_CODE_CASH"),
		Bank:                  viper.GetString("ACCOUNT_CODE_BANK"),
		InstallmentReceivable: viper.GetString("ACCOUNT_CODE_INSTALLMENT_RECEIVABLE"),
		LateFeeIncome:         viper.GetString("ACCOUNT_CODE_LATE_FEE_INCOME"),
		ReconciliationOffset:  viper.GetString("ACCOUNT_CODE_RECON_OFFSET"),
	}

	return cfg, nil
}

func mustDecimal(key, fallback string) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s (%q). Defaulting to %s.\n", key, raw, fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
