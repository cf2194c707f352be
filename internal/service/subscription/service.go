package subscription

import (
	"custody_backend/internal/config"
	"custody_backend/internal/repository"
	"custody_backend/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type serv struct {
	cfg       config.SubscriptionConfig
	subRepo   repository.SubscriptionRepository
	deposit   service.DepositService
	txManager trm.Manager
}

// NewSubscriptionService - продажа подписки за кастодиальные средства.
// Собранные средства зачисляются на доступный баланс владельца платформы
func NewSubscriptionService(
	cfg config.SubscriptionConfig,
	subRepo repository.SubscriptionRepository,
	deposit service.DepositService,
	txManager trm.Manager,
) service.SubscriptionService {
	return &serv{
		cfg:       cfg,
		subRepo:   subRepo,
		deposit:   deposit,
		txManager: txManager,
	}
}
