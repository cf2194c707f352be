package game_test

import (
	"context"
	"custody_backend/internal/middleware"
	"custody_backend/internal/model"
	"custody_backend/internal/repository/memory"
	"custody_backend/internal/service"
	"custody_backend/internal/service/deposit"
	"custody_backend/internal/service/game"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	assetLedgerAddr = "asset-ledger"
	ownerAddr       = "platform-owner"
	gameAddr        = "game-engine"
	reserveAddr     = "platform-reserve"
	developerAddr   = "game-developer"
	playerAddr      = "player-1"
)

type platformCfg struct {
	authority string
}

func (c platformCfg) AssetLedgerAddress() string  { return assetLedgerAddr }
func (c platformCfg) SettlementAuthority() string { return c.authority }

type gameCfg struct {
	authority string
	reserve   string
	developer string
}

func (c gameCfg) GameAddress() string            { return gameAddr }
func (c gameCfg) SettlementAuthority() string    { return c.authority }
func (c gameCfg) PlatformReserveAddress() string { return c.reserve }
func (c gameCfg) GameDeveloperAddress() string   { return c.developer }

type fakeAssetLedger struct {
	transfers   map[string]int64
	receivable  bool
	transferErr error
}

func newFakeAssetLedger() *fakeAssetLedger {
	return &fakeAssetLedger{transfers: make(map[string]int64), receivable: true}
}

func (f *fakeAssetLedger) Transfer(_ context.Context, to string, amount int64) error {
	if f.transferErr != nil {
		return f.transferErr
	}
	f.transfers[to] += amount
	return nil
}

func (f *fakeAssetLedger) CanReceive(_ context.Context, _ string) (bool, error) {
	return f.receivable, nil
}

type fixture struct {
	deposit service.DepositService
	game    service.GameService
	ledger  *fakeAssetLedger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	manager := memory.NewManager(store)
	ledger := newFakeAssetLedger()

	depositServ := deposit.NewDepositService(
		platformCfg{authority: ownerAddr},
		memory.NewBalanceRepository(store),
		memory.NewLockRepository(store),
		manager,
		ledger,
	)

	gameServ, err := game.NewGameService(
		gameCfg{authority: ownerAddr, reserve: reserveAddr, developer: developerAddr},
		depositServ,
		memory.NewGameSessionRepository(store),
		memory.NewLedgerEventRepository(store),
		manager,
	)
	require.NoError(t, err)

	return &fixture{deposit: depositServ, game: gameServ, ledger: ledger}
}

func asLedger(ctx context.Context) context.Context {
	return middleware.WithAddress(ctx, assetLedgerAddr)
}

func asOwner(ctx context.Context) context.Context {
	return middleware.WithAddress(ctx, ownerAddr)
}

// credit зачисляет депозит; при непустом consumer средства сразу блокируются
func (f *fixture) credit(t *testing.T, depositor string, amount int64, consumer string) {
	t.Helper()
	err := f.deposit.CreditFromNotification(asLedger(context.Background()), depositor, amount, consumer)
	require.NoError(t, err)
}

func (f *fixture) settleReq(remain, final int64) model.SettlementRequest {
	return model.SettlementRequest{
		Player:        playerAddr,
		RemainBalance: remain,
		FinalBalance:  final,
		SessionID:     [32]byte{1, 2, 3},
		AuthTag:       [32]byte{4, 5, 6},
	}
}

func (f *fixture) balance(t *testing.T, address string) int64 {
	t.Helper()
	b, err := f.deposit.BalanceOf(context.Background(), address)
	require.NoError(t, err)
	return b
}

func TestNewGameService_AuthorityMismatch(t *testing.T) {
	store := memory.NewStore()
	manager := memory.NewManager(store)

	depositServ := deposit.NewDepositService(
		platformCfg{authority: ownerAddr},
		memory.NewBalanceRepository(store),
		memory.NewLockRepository(store),
		manager,
		newFakeAssetLedger(),
	)

	_, err := game.NewGameService(
		gameCfg{authority: "somebody-else", reserve: reserveAddr, developer: developerAddr},
		depositServ,
		memory.NewGameSessionRepository(store),
		memory.NewLedgerEventRepository(store),
		manager,
	)
	assert.ErrorIs(t, err, model.ErrAuthorityMismatch)
}

func TestNewGameService_ReserveEqualsDeveloper(t *testing.T) {
	store := memory.NewStore()
	manager := memory.NewManager(store)

	depositServ := deposit.NewDepositService(
		platformCfg{authority: ownerAddr},
		memory.NewBalanceRepository(store),
		memory.NewLockRepository(store),
		manager,
		newFakeAssetLedger(),
	)

	_, err := game.NewGameService(
		gameCfg{authority: ownerAddr, reserve: reserveAddr, developer: reserveAddr},
		depositServ,
		memory.NewGameSessionRepository(store),
		memory.NewLedgerEventRepository(store),
		manager,
	)
	assert.Error(t, err)
}

func TestDepositWithConsumer_OpensSession(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	open, err := f.game.IsSessionOpen(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.True(t, open)

	locked, err := f.game.SessionLockedAmount(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 8, locked)

	// Средства игрока целиком заблокированы, доступный баланс пуст
	assert.EqualValues(t, 0, f.balance(t, playerAddr))

	events, err := f.game.EventsOf(context.Background(), playerAddr, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventSessionOpened, events[0].Kind)
}

func TestDepositWithConsumer_RefreshesOpenSession(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)
	f.credit(t, playerAddr, 5, gameAddr)

	locked, err := f.game.SessionLockedAmount(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 13, locked)

	events, err := f.game.EventsOf(context.Background(), playerAddr, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventSessionRefreshed, events[0].Kind)
	assert.Equal(t, model.EventSessionOpened, events[1].Kind)
}

func TestTransferToGame_LocksAvailableFunds(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 10, "")

	ctx := middleware.WithAddress(context.Background(), playerAddr)
	require.NoError(t, f.game.TransferToGame(ctx, 6))

	assert.EqualValues(t, 4, f.balance(t, playerAddr))

	locked, err := f.game.SessionLockedAmount(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 6, locked)

	// Второй перевод пополняет уже открытую сессию
	require.NoError(t, f.game.TransferToGame(ctx, 4))

	locked, err = f.game.SessionLockedAmount(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 10, locked)
}

func TestTransferToGame_InsufficientAvailable(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 3, "")

	ctx := middleware.WithAddress(context.Background(), playerAddr)
	err := f.game.TransferToGame(ctx, 5)
	assert.ErrorIs(t, err, model.ErrInsufficientAvailable)

	// Неудачная блокировка ничего не меняет
	assert.EqualValues(t, 3, f.balance(t, playerAddr))
}

func TestSettle_PlayerWin_UnfundedReserve(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	// Резерв пуст, выигрыш платить нечем - расчет отклоняется целиком
	_, err := f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(0, 16))
	assert.ErrorIs(t, err, model.ErrInsufficientAvailable)

	open, err := f.game.IsSessionOpen(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.True(t, open)
}

func TestSettle_PlayerWin_FundedReserve(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)
	f.credit(t, reserveAddr, 8, "")

	result, err := f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(0, 16))
	require.NoError(t, err)

	assert.EqualValues(t, 16, result.Released)
	assert.EqualValues(t, -8, result.ReserveDelta)
	assert.EqualValues(t, 0, result.DevDelta)
	assert.EqualValues(t, 0, result.Remaining)
	assert.True(t, result.Closed)

	assert.EqualValues(t, 16, f.balance(t, playerAddr))
	assert.EqualValues(t, 0, f.balance(t, reserveAddr))
	assert.EqualValues(t, 0, f.balance(t, developerAddr))

	open, err := f.game.IsSessionOpen(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestSettle_TotalLoss_EvenSplit(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	result, err := f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(0, 0))
	require.NoError(t, err)

	assert.EqualValues(t, 0, result.Released)
	assert.EqualValues(t, 4, result.ReserveDelta)
	assert.EqualValues(t, 4, result.DevDelta)
	assert.True(t, result.Closed)

	assert.EqualValues(t, 0, f.balance(t, playerAddr))
	assert.EqualValues(t, 4, f.balance(t, reserveAddr))
	assert.EqualValues(t, 4, f.balance(t, developerAddr))
}

func TestSettle_OddLoss_ReserveGetsExtraUnit(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	result, err := f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(0, 1))
	require.NoError(t, err)

	assert.EqualValues(t, 1, result.Released)
	assert.EqualValues(t, 4, result.ReserveDelta)
	assert.EqualValues(t, 3, result.DevDelta)

	assert.EqualValues(t, 1, f.balance(t, playerAddr))
	assert.EqualValues(t, 4, f.balance(t, reserveAddr))
	assert.EqualValues(t, 3, f.balance(t, developerAddr))
}

func TestSettle_PartialRetain_SessionStaysOpen(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)
	f.credit(t, reserveAddr, 8, "")

	result, err := f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(8, 16))
	require.NoError(t, err)

	assert.EqualValues(t, 8, result.Released)
	assert.EqualValues(t, -8, result.ReserveDelta)
	assert.EqualValues(t, 8, result.Remaining)
	assert.False(t, result.Closed)

	assert.EqualValues(t, 8, f.balance(t, playerAddr))
	assert.EqualValues(t, 0, f.balance(t, reserveAddr))

	open, err := f.game.IsSessionOpen(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.True(t, open)

	locked, err := f.game.SessionLockedAmount(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 8, locked)
}

func TestSettle_RemainderOutOfBounds(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	testCases := []struct {
		name   string
		remain int64
		final  int64
	}{
		{name: "remain above final", remain: 5, final: 4},
		{name: "negative remain", remain: -1, final: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(tc.remain, tc.final))
			assert.ErrorIs(t, err, model.ErrInvalidRemainder)
		})
	}
}

func TestSettle_ClosedSession(t *testing.T) {
	f := newFixture(t)

	// Сессии никогда не было
	_, err := f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(0, 0))
	assert.ErrorIs(t, err, model.ErrClosedSession)

	// Сессия была и закрыта расчетом
	f.credit(t, playerAddr, 8, gameAddr)
	_, err = f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(0, 0))
	require.NoError(t, err)

	_, err = f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(0, 0))
	assert.ErrorIs(t, err, model.ErrClosedSession)
}

func TestSettle_UnauthorizedCaller(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	ctx := middleware.WithAddress(context.Background(), playerAddr)
	_, err := f.game.SettleToLedger(ctx, f.settleReq(0, 0))
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = f.game.SettleToLedger(context.Background(), f.settleReq(0, 0))
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestSettleToWallet_ReleasesToExternalWallet(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	result, err := f.game.SettleToWallet(asOwner(context.Background()), f.settleReq(0, 1))
	require.NoError(t, err)

	assert.EqualValues(t, 1, result.Released)

	// Высвобожденная часть ушла на внешний кошелек, а не в доступный баланс
	assert.EqualValues(t, 0, f.balance(t, playerAddr))
	assert.EqualValues(t, 1, f.ledger.transfers[playerAddr])

	report, err := f.deposit.CheckConservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.EqualValues(t, 1, report.TotalPaidOut)
}

func TestSettleToWallet_FailedSettlementSendsNothing(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	// Выигрыш при пустом резерве: расчет отклоняется, и наружу
	// не должно уйти ни единицы актива
	_, err := f.game.SettleToWallet(asOwner(context.Background()), f.settleReq(0, 16))
	assert.ErrorIs(t, err, model.ErrInsufficientAvailable)

	assert.Empty(t, f.ledger.transfers)

	locked, err := f.game.SessionLockedAmount(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 8, locked)

	report, err := f.deposit.CheckConservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Zero(t, report.TotalPaidOut)
}

func TestSettleToWallet_TransferFailureRollsBackSession(t *testing.T) {
	f := newFixture(t)
	f.ledger.transferErr = errors.New("ledger down")

	f.credit(t, playerAddr, 8, gameAddr)

	_, err := f.game.SettleToWallet(asOwner(context.Background()), f.settleReq(0, 1))
	assert.Error(t, err)

	// Неудавшийся внешний перевод откатывает весь расчет
	open, err := f.game.IsSessionOpen(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.True(t, open)

	locked, err := f.game.SessionLockedAmount(context.Background(), playerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 8, locked)

	assert.EqualValues(t, 0, f.balance(t, reserveAddr))
	assert.EqualValues(t, 0, f.balance(t, developerAddr))

	report, err := f.deposit.CheckConservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Zero(t, report.TotalPaidOut)
}

func TestSettle_RecordsAuditEvent(t *testing.T) {
	f := newFixture(t)

	f.credit(t, playerAddr, 8, gameAddr)

	req := f.settleReq(0, 0)
	_, err := f.game.SettleToLedger(asOwner(context.Background()), req)
	require.NoError(t, err)

	events, err := f.game.EventsOf(context.Background(), playerAddr, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, model.EventSessionSettled, e.Kind)
	assert.EqualValues(t, 4, e.ReserveDelta)
	assert.EqualValues(t, 4, e.DevDelta)
	assert.Equal(t, req.SessionID[:], e.SessionID)
	assert.Equal(t, req.AuthTag[:], e.AuthTag)
}

func TestConservation_RandomOperationSequence(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(1))

	f.credit(t, reserveAddr, 1000, "")

	for i := 0; i < 200; i++ {
		switch rng.Intn(4) {
		case 0:
			f.credit(t, playerAddr, int64(rng.Intn(20)+1), "")
		case 1:
			amount := int64(rng.Intn(20) + 1)
			ctx := middleware.WithAddress(context.Background(), playerAddr)
			err := f.game.TransferToGame(ctx, amount)
			if err != nil {
				require.ErrorIs(t, err, model.ErrInsufficientAvailable)
			}
		case 2:
			locked, err := f.game.SessionLockedAmount(context.Background(), playerAddr)
			require.NoError(t, err)
			if locked == 0 {
				continue
			}
			final := int64(rng.Intn(int(locked)*2 + 1))
			remain := int64(0)
			if final > 0 {
				remain = int64(rng.Intn(int(final) + 1))
			}
			_, err = f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(remain, final))
			if err != nil {
				require.ErrorIs(t, err, model.ErrInsufficientAvailable)
			}
		case 3:
			amount := int64(rng.Intn(20) + 1)
			ctx := middleware.WithAddress(context.Background(), playerAddr)
			err := f.deposit.PayOut(ctx, "external-wallet", amount)
			if err != nil {
				require.ErrorIs(t, err, model.ErrInsufficientAvailable)
			}
		}

		report, err := f.deposit.CheckConservation(context.Background())
		require.NoError(t, err)
		require.True(t, report.Consistent, "conservation broken at step %d: %+v", i, report)
	}
}

func TestSettle_ConservationHoldsAcrossOutcomes(t *testing.T) {
	f := newFixture(t)

	f.credit(t, reserveAddr, 100, "")

	scenarios := []struct {
		remain int64
		final  int64
		amount int64
	}{
		{amount: 8, remain: 0, final: 0},   // полный проигрыш
		{amount: 8, remain: 0, final: 16},  // выигрыш
		{amount: 8, remain: 0, final: 1},   // нечетный проигрыш
		{amount: 10, remain: 4, final: 11}, // частичное удержание
		{amount: 7, remain: 7, final: 7},   // все остается в сессии
	}

	for _, sc := range scenarios {
		f.credit(t, playerAddr, sc.amount, gameAddr)

		_, err := f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(sc.remain, sc.final))
		require.NoError(t, err)

		report, err := f.deposit.CheckConservation(context.Background())
		require.NoError(t, err)
		assert.True(t, report.Consistent,
			"conservation broken after remain=%d final=%d: %+v", sc.remain, sc.final, report)

		// Добираем остаток, чтобы следующий сценарий начинался с закрытой сессии
		locked, err := f.game.SessionLockedAmount(context.Background(), playerAddr)
		require.NoError(t, err)
		if locked > 0 {
			_, err = f.game.SettleToLedger(asOwner(context.Background()), f.settleReq(0, locked))
			require.NoError(t, err)
		}
	}
}
