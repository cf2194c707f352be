package env

import (
	"custody_backend/internal/config"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Структура config.yaml с адресами участников платформы
type yamlPlatformFile struct {
	Platform struct {
		AssetLedgerAddress  string `yaml:"asset_ledger_address"`
		SettlementAuthority string `yaml:"settlement_authority"`
	} `yaml:"platform"`
	Game struct {
		GameAddress     string `yaml:"game_address"`
		PlatformReserve string `yaml:"platform_reserve"`
		GameDeveloper   string `yaml:"game_developer"`
	} `yaml:"game"`
	Subscription struct {
		DefaultPrice int64 `yaml:"default_price"`
	} `yaml:"subscription"`
}

func readPlatformFile(path string) (*yamlPlatformFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var parsed yamlPlatformFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &parsed, nil
}

type platformConfig struct {
	assetLedgerAddress  string
	settlementAuthority string
}

func NewPlatformConfigFromYAML(path string) (config.PlatformConfig, error) {
	parsed, err := readPlatformFile(path)
	if err != nil {
		return nil, err
	}

	if parsed.Platform.AssetLedgerAddress == "" {
		return nil, fmt.Errorf("asset ledger address not found")
	}
	if parsed.Platform.SettlementAuthority == "" {
		return nil, fmt.Errorf("settlement authority not found")
	}

	return &platformConfig{
		assetLedgerAddress:  parsed.Platform.AssetLedgerAddress,
		settlementAuthority: parsed.Platform.SettlementAuthority,
	}, nil
}

func (cfg *platformConfig) AssetLedgerAddress() string {
	return cfg.assetLedgerAddress
}

func (cfg *platformConfig) SettlementAuthority() string {
	return cfg.settlementAuthority
}

type gameConfig struct {
	gameAddress         string
	settlementAuthority string
	platformReserve     string
	gameDeveloper       string
}

func NewGameConfigFromYAML(path string) (config.GameConfig, error) {
	parsed, err := readPlatformFile(path)
	if err != nil {
		return nil, err
	}

	if parsed.Game.GameAddress == "" {
		return nil, fmt.Errorf("game address not found")
	}
	if parsed.Game.PlatformReserve == "" {
		return nil, fmt.Errorf("platform reserve address not found")
	}
	if parsed.Game.GameDeveloper == "" {
		return nil, fmt.Errorf("game developer address not found")
	}

	return &gameConfig{
		gameAddress: parsed.Game.GameAddress,
		// Расчетный центр у движка и реестра один и тот же,
		// совпадение проверяется при конструировании движка
		settlementAuthority: parsed.Platform.SettlementAuthority,
		platformReserve:     parsed.Game.PlatformReserve,
		gameDeveloper:       parsed.Game.GameDeveloper,
	}, nil
}

func (cfg *gameConfig) GameAddress() string {
	return cfg.gameAddress
}

func (cfg *gameConfig) SettlementAuthority() string {
	return cfg.settlementAuthority
}

func (cfg *gameConfig) PlatformReserveAddress() string {
	return cfg.platformReserve
}

func (cfg *gameConfig) GameDeveloperAddress() string {
	return cfg.gameDeveloper
}

type subscriptionConfig struct {
	defaultPrice int64
}

func NewSubscriptionConfigFromYAML(path string) (config.SubscriptionConfig, error) {
	parsed, err := readPlatformFile(path)
	if err != nil {
		return nil, err
	}

	if parsed.Subscription.DefaultPrice <= 0 {
		return nil, fmt.Errorf("subscription default price must be positive")
	}

	return &subscriptionConfig{
		defaultPrice: parsed.Subscription.DefaultPrice,
	}, nil
}

func (cfg *subscriptionConfig) DefaultPrice() int64 {
	return cfg.defaultPrice
}
