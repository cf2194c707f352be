package app

import (
	"context"
	authAPI "custody_backend/internal/api/auth"
	depositAPI "custody_backend/internal/api/deposit"
	gameAPI "custody_backend/internal/api/game"
	subscriptionAPI "custody_backend/internal/api/subscription"
	"custody_backend/internal/client/assetledger"
	"custody_backend/internal/config"
	"custody_backend/internal/config/env"
	"custody_backend/internal/middleware"
	"custody_backend/internal/repository"
	"custody_backend/internal/repository/auth_repo"
	"custody_backend/internal/repository/balance_repo"
	"custody_backend/internal/repository/game_session_repo"
	"custody_backend/internal/repository/ledger_event_repo"
	"custody_backend/internal/repository/lock_repo"
	"custody_backend/internal/repository/subscription_repo"
	"custody_backend/internal/repository/user_repo"
	"custody_backend/internal/service"
	"custody_backend/internal/service/auth"
	"custody_backend/internal/service/deposit"
	"custody_backend/internal/service/game"
	"custody_backend/internal/service/subscription"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceProvider struct {
	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Auth bits
	jwtCfg   config.JWTConfig
	authRepo repository.AuthRepository
	userRepo repository.UserRepository
	authServ service.AuthService
	authHand *authAPI.Handler

	// Deposit bits
	platformCfg    config.PlatformConfig
	assetLedgerCfg config.AssetLedgerConfig
	assetLedger    *assetledger.Client
	balanceRepo    repository.BalanceRepository
	lockRepo       repository.LockRepository
	depositServ    service.DepositService
	depositHand    *depositAPI.Handler

	// Game bits
	gameCfg     config.GameConfig
	sessionRepo repository.GameSessionRepository
	eventRepo   repository.LedgerEventRepository
	gameServ    service.GameService
	gameHand    *gameAPI.Handler

	// Subscription bits
	subscriptionCfg  config.SubscriptionConfig
	subscriptionRepo repository.SubscriptionRepository
	subscriptionServ service.SubscriptionService
	subscriptionHand *subscriptionAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(sp.TXManager(ctx), sp.UserRepo(ctx), sp.AuthRepo(ctx), sp.JWTCfg())
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{Serv: sp.AuthService(ctx)})
	}
	return sp.authHand
}

func (sp *ServiceProvider) PlatformCfg() config.PlatformConfig {
	if sp.platformCfg == nil {
		cfg, err := env.NewPlatformConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get platform config: " + err.Error())
		}
		sp.platformCfg = cfg
	}
	return sp.platformCfg
}

func (sp *ServiceProvider) AssetLedgerCfg() config.AssetLedgerConfig {
	if sp.assetLedgerCfg == nil {
		cfg, err := env.NewAssetLedgerConfig()
		if err != nil {
			panic("failed to get asset ledger config: " + err.Error())
		}
		sp.assetLedgerCfg = cfg
	}
	return sp.assetLedgerCfg
}

func (sp *ServiceProvider) AssetLedgerClient() *assetledger.Client {
	if sp.assetLedger == nil {
		sp.assetLedger = assetledger.NewClient(sp.AssetLedgerCfg())
	}
	return sp.assetLedger
}

func (sp *ServiceProvider) BalanceRepository(ctx context.Context) repository.BalanceRepository {
	if sp.balanceRepo == nil {
		sp.balanceRepo = balance_repo.NewBalanceRepository(sp.DBClient(ctx))
	}
	return sp.balanceRepo
}

func (sp *ServiceProvider) LockRepository(ctx context.Context) repository.LockRepository {
	if sp.lockRepo == nil {
		sp.lockRepo = lock_repo.NewLockRepository(sp.DBClient(ctx))
	}
	return sp.lockRepo
}

func (sp *ServiceProvider) DepositService(ctx context.Context) service.DepositService {
	if sp.depositServ == nil {
		sp.depositServ = deposit.NewDepositService(
			sp.PlatformCfg(),
			sp.BalanceRepository(ctx),
			sp.LockRepository(ctx),
			sp.TXManager(ctx),
			sp.AssetLedgerClient(),
		)
	}
	return sp.depositServ
}

func (sp *ServiceProvider) DepositHandler(ctx context.Context) *depositAPI.Handler {
	if sp.depositHand == nil {
		sp.depositHand = depositAPI.NewHandler(depositAPI.HandlerDeps{Serv: sp.DepositService(ctx)})
	}
	return sp.depositHand
}

func (sp *ServiceProvider) GameCfg() config.GameConfig {
	if sp.gameCfg == nil {
		cfg, err := env.NewGameConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get game config: " + err.Error())
		}
		sp.gameCfg = cfg
	}
	return sp.gameCfg
}

func (sp *ServiceProvider) GameSessionRepository(ctx context.Context) repository.GameSessionRepository {
	if sp.sessionRepo == nil {
		sp.sessionRepo = game_session_repo.NewGameSessionRepository(sp.DBClient(ctx))
	}
	return sp.sessionRepo
}

func (sp *ServiceProvider) LedgerEventRepository(ctx context.Context) repository.LedgerEventRepository {
	if sp.eventRepo == nil {
		sp.eventRepo = ledger_event_repo.NewLedgerEventRepository(sp.DBClient(ctx))
	}
	return sp.eventRepo
}

func (sp *ServiceProvider) GameService(ctx context.Context) service.GameService {
	if sp.gameServ == nil {
		serv, err := game.NewGameService(
			sp.GameCfg(),
			sp.DepositService(ctx),
			sp.GameSessionRepository(ctx),
			sp.LedgerEventRepository(ctx),
			sp.TXManager(ctx),
		)
		if err != nil {
			panic("failed to create game service: " + err.Error())
		}
		sp.gameServ = serv
	}
	return sp.gameServ
}

func (sp *ServiceProvider) GameHandler(ctx context.Context) *gameAPI.Handler {
	if sp.gameHand == nil {
		sp.gameHand = gameAPI.NewHandler(gameAPI.HandlerDeps{Serv: sp.GameService(ctx)})
	}
	return sp.gameHand
}

func (sp *ServiceProvider) SubscriptionCfg() config.SubscriptionConfig {
	if sp.subscriptionCfg == nil {
		cfg, err := env.NewSubscriptionConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get subscription config: " + err.Error())
		}
		sp.subscriptionCfg = cfg
	}
	return sp.subscriptionCfg
}

func (sp *ServiceProvider) SubscriptionRepository(ctx context.Context) repository.SubscriptionRepository {
	if sp.subscriptionRepo == nil {
		sp.subscriptionRepo = subscription_repo.NewSubscriptionRepository(sp.DBClient(ctx))
	}
	return sp.subscriptionRepo
}

func (sp *ServiceProvider) SubscriptionService(ctx context.Context) service.SubscriptionService {
	if sp.subscriptionServ == nil {
		sp.subscriptionServ = subscription.NewSubscriptionService(
			sp.SubscriptionCfg(),
			sp.SubscriptionRepository(ctx),
			sp.DepositService(ctx),
			sp.TXManager(ctx),
		)
	}
	return sp.subscriptionServ
}

func (sp *ServiceProvider) SubscriptionHandler(ctx context.Context) *subscriptionAPI.Handler {
	if sp.subscriptionHand == nil {
		sp.subscriptionHand = subscriptionAPI.NewHandler(subscriptionAPI.HandlerDeps{Serv: sp.SubscriptionService(ctx)})
	}
	return sp.subscriptionHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Auth endpoints, без токена
		authHandler := sp.AuthHandler(ctx)
		r.Route("/auth", func(rr chi.Router) {
			rr.Post("/register", authHandler.Register)
			rr.Post("/login", authHandler.Login)
			rr.Post("/refresh", authHandler.Refresh)
			rr.Post("/logout", authHandler.Logout)
		})

		// Публичная цена подписки
		subscriptionHandler := sp.SubscriptionHandler(ctx)
		r.Get("/subscription/price", subscriptionHandler.Price)

		// Все остальное только с access токеном
		r.Group(func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey()))

			depositHandler := sp.DepositHandler(ctx)
			rr.Route("/deposit", func(rrr chi.Router) {
				rrr.Post("/notify", depositHandler.Notify)
				rrr.Post("/transfer", depositHandler.Transfer)
				rrr.Post("/payout", depositHandler.PayOut)
				rrr.Get("/balance/{address}", depositHandler.Balance)
				rrr.Get("/locked/{depositor}/{consumer}", depositHandler.Locked)
				rrr.Get("/conservation", depositHandler.Conservation)
			})

			gameHandler := sp.GameHandler(ctx)
			rr.Route("/game", func(rrr chi.Router) {
				rrr.Post("/transfer", gameHandler.Transfer)
				rrr.Post("/settle", gameHandler.Settle)
				rrr.Post("/settle-payout", gameHandler.SettlePayout)
				rrr.Get("/session/{player}", gameHandler.Session)
				rrr.Get("/events/{player}", gameHandler.Events)
			})

			// Без Route, чтобы не затенять публичный GET /subscription/price
			rr.Post("/subscription/price", subscriptionHandler.SetPrice)
			rr.Post("/subscription/subscribe", subscriptionHandler.Subscribe)
			rr.Get("/subscription/{address}", subscriptionHandler.Subscription)
		})

		sp.router = r
	}

	return sp.router
}
