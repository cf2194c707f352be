package game

import (
	"custody_backend/internal/config"
	"custody_backend/internal/model"
	"custody_backend/internal/repository"
	"custody_backend/internal/service"
	"errors"
	"fmt"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type serv struct {
	deposit     service.DepositService
	ops         service.ConsumerOps
	sessionRepo repository.GameSessionRepository
	eventRepo   repository.LedgerEventRepository
	txManager   trm.Manager

	gameAddress     string
	authority       string
	platformReserve string
	gameDeveloper   string
}

// NewGameService - создать игровой движок поверх депозитного реестра.
// Движок регистрируется в реестре как потребитель под своим адресом.
// Расчетный центр движка обязан совпадать с расчетным центром реестра,
// иначе расчет сессий был бы невозможен - проверяем при конструировании
func NewGameService(
	cfg config.GameConfig,
	deposit service.DepositService,
	sessionRepo repository.GameSessionRepository,
	eventRepo repository.LedgerEventRepository,
	txManager trm.Manager,
) (service.GameService, error) {
	if cfg.SettlementAuthority() != deposit.Authority() {
		return nil, fmt.Errorf("game %s: %w", cfg.GameAddress(), model.ErrAuthorityMismatch)
	}
	if cfg.PlatformReserveAddress() == cfg.GameDeveloperAddress() {
		return nil, errors.New("platform reserve and game developer must be different depositors")
	}

	s := &serv{
		deposit:         deposit,
		sessionRepo:     sessionRepo,
		eventRepo:       eventRepo,
		txManager:       txManager,
		gameAddress:     cfg.GameAddress(),
		authority:       cfg.SettlementAuthority(),
		platformReserve: cfg.PlatformReserveAddress(),
		gameDeveloper:   cfg.GameDeveloperAddress(),
	}

	ops, err := deposit.RegisterConsumer(cfg.GameAddress(), s)
	if err != nil {
		return nil, fmt.Errorf("register consumer: %w", err)
	}
	s.ops = ops

	return s, nil
}
