package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

// PlatformConfig - адреса внешнего реестра активов и расчетного центра.
// Расчетный центр одновременно является владельцем платформы.
type PlatformConfig interface {
	AssetLedgerAddress() string
	SettlementAuthority() string
}

// GameConfig - конфигурация игрового движка: его собственный адрес (consumer),
// его расчетный центр и адреса резерва платформы и разработчика игры.
type GameConfig interface {
	GameAddress() string
	SettlementAuthority() string
	PlatformReserveAddress() string
	GameDeveloperAddress() string
}

type SubscriptionConfig interface {
	DefaultPrice() int64
}

// AssetLedgerConfig - подключение к внешнему реестру активов для исходящих переводов.
type AssetLedgerConfig interface {
	BaseURL() string
	Token() string
}
