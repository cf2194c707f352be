package deposit

import (
	"custody_backend/internal/config"
	"custody_backend/internal/model"
	"custody_backend/internal/repository"
	"custody_backend/internal/service"
	"sync"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type serv struct {
	cfg         config.PlatformConfig
	balanceRepo repository.BalanceRepository
	lockRepo    repository.LockRepository
	txManager   trm.Manager
	assetLedger service.AssetLedger

	mu        sync.Mutex
	consumers map[string]service.LockObserver
}

// NewDepositService - создать депозитный реестр поверх внешнего реестра активов
func NewDepositService(
	cfg config.PlatformConfig,
	balanceRepo repository.BalanceRepository,
	lockRepo repository.LockRepository,
	txManager trm.Manager,
	assetLedger service.AssetLedger,
) service.DepositService {
	return &serv{
		cfg:         cfg,
		balanceRepo: balanceRepo,
		lockRepo:    lockRepo,
		txManager:   txManager,
		assetLedger: assetLedger,
		consumers:   make(map[string]service.LockObserver),
	}
}

// Authority - адрес расчетного центра, которому подчиняется реестр
func (s *serv) Authority() string {
	return s.cfg.SettlementAuthority()
}

// RegisterConsumer - регистрация потребителя.
// Возвращаемый дескриптор - единственный путь к блокировкам этого потребителя
func (s *serv) RegisterConsumer(consumer string, observer service.LockObserver) (service.ConsumerOps, error) {
	if consumer == "" {
		return nil, model.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.consumers[consumer]; ok {
		return nil, model.ErrConsumerTaken
	}
	s.consumers[consumer] = observer

	return &consumerOps{serv: s, consumer: consumer}, nil
}

func (s *serv) observerOf(consumer string) service.LockObserver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumers[consumer]
}
