package env

import (
	"custody_backend/internal/config"
	"errors"
	"os"
)

const (
	assetLedgerURLEnvName   = "ASSET_LEDGER_URL"
	assetLedgerTokenEnvName = "ASSET_LEDGER_TOKEN"
)

type assetLedgerConfig struct {
	baseURL string
	token   string
}

func NewAssetLedgerConfig() (config.AssetLedgerConfig, error) {
	baseURL := os.Getenv(assetLedgerURLEnvName)
	if len(baseURL) == 0 {
		return nil, errors.New("asset ledger url not found")
	}

	// Токен не обязателен: реестр может принимать вызовы по адресу отправителя
	token := os.Getenv(assetLedgerTokenEnvName)

	return &assetLedgerConfig{
		baseURL: baseURL,
		token:   token,
	}, nil
}

func (cfg *assetLedgerConfig) BaseURL() string {
	return cfg.baseURL
}

func (cfg *assetLedgerConfig) Token() string {
	return cfg.token
}
