package deposit_test

import (
	"context"
	"custody_backend/internal/middleware"
	"custody_backend/internal/model"
	"custody_backend/internal/repository/memory"
	"custody_backend/internal/service"
	"custody_backend/internal/service/deposit"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	assetLedgerAddr = "asset-ledger"
	ownerAddr       = "platform-owner"
	consumerAddr    = "game-engine"
	aliceAddr       = "alice"
	bobAddr         = "bob"
)

type platformCfg struct{}

func (platformCfg) AssetLedgerAddress() string  { return assetLedgerAddr }
func (platformCfg) SettlementAuthority() string { return ownerAddr }

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

// recordingObserver фиксирует уведомления о блокировках
type recordingObserver struct {
	depositor string
	amount    int64
	calls     int
}

func (o *recordingObserver) OnFundsLocked(_ context.Context, depositor string, amount int64) error {
	o.depositor = depositor
	o.amount = amount
	o.calls++
	return nil
}

type fixture struct {
	serv     service.DepositService
	ledger   *fakeAssetLedger
	observer *recordingObserver
	ops      service.ConsumerOps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	manager := memory.NewManager(store)
	ledger := newFakeAssetLedger()

	serv := deposit.NewDepositService(
		platformCfg{},
		memory.NewBalanceRepository(store),
		memory.NewLockRepository(store),
		manager,
		ledger,
	)

	observer := &recordingObserver{}
	ops, err := serv.RegisterConsumer(consumerAddr, observer)
	require.NoError(t, err)

	return &fixture{serv: serv, ledger: ledger, observer: observer, ops: ops}
}

func asLedger(ctx context.Context) context.Context {
	return middleware.WithAddress(ctx, assetLedgerAddr)
}

func as(ctx context.Context, address string) context.Context {
	return middleware.WithAddress(ctx, address)
}

func (f *fixture) balance(t *testing.T, address string) int64 {
	t.Helper()
	b, err := f.serv.BalanceOf(context.Background(), address)
	require.NoError(t, err)
	return b
}

func TestRegisterConsumer_Duplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.serv.RegisterConsumer(consumerAddr, &recordingObserver{})
	assert.ErrorIs(t, err, model.ErrConsumerTaken)
}

func TestRegisterConsumer_EmptyAddress(t *testing.T) {
	f := newFixture(t)

	_, err := f.serv.RegisterConsumer("", &recordingObserver{})
	assert.Error(t, err)
}

func TestCreditFromNotification(t *testing.T) {
	f := newFixture(t)

	err := f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, "")
	require.NoError(t, err)

	assert.EqualValues(t, 100, f.balance(t, aliceAddr))
	assert.Zero(t, f.observer.calls)
}

func TestCreditFromNotification_UnauthorizedCaller(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		name string
		ctx  context.Context
	}{
		{name: "no identity", ctx: context.Background()},
		{name: "wrong identity", ctx: as(context.Background(), aliceAddr)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.serv.CreditFromNotification(tc.ctx, aliceAddr, 100, "")
			assert.ErrorIs(t, err, model.ErrUnauthorized)
		})
	}
}

func TestCreditFromNotification_ZeroAmount(t *testing.T) {
	f := newFixture(t)

	err := f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 0, "")
	assert.ErrorIs(t, err, model.ErrZeroAmount)

	err = f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, -5, "")
	assert.ErrorIs(t, err, model.ErrZeroAmount)
}

func TestCreditFromNotification_UnknownConsumer(t *testing.T) {
	f := newFixture(t)

	err := f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, "nobody")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	assert.Zero(t, f.balance(t, aliceAddr))
}

func TestCreditFromNotification_WithConsumer_LocksAndNotifies(t *testing.T) {
	f := newFixture(t)

	err := f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, consumerAddr)
	require.NoError(t, err)

	// Вся сумма сразу заблокирована под потребителя
	assert.Zero(t, f.balance(t, aliceAddr))

	locked, err := f.serv.LockedOf(context.Background(), aliceAddr, consumerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 100, locked)

	assert.Equal(t, 1, f.observer.calls)
	assert.Equal(t, aliceAddr, f.observer.depositor)
	assert.EqualValues(t, 100, f.observer.amount)
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, ""))

	err := f.serv.Transfer(as(context.Background(), aliceAddr), bobAddr, 30)
	require.NoError(t, err)

	assert.EqualValues(t, 70, f.balance(t, aliceAddr))
	assert.EqualValues(t, 30, f.balance(t, bobAddr))
}

func TestTransfer_Insufficient(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 10, ""))

	err := f.serv.Transfer(as(context.Background(), aliceAddr), bobAddr, 11)
	assert.ErrorIs(t, err, model.ErrInsufficientAvailable)

	assert.EqualValues(t, 10, f.balance(t, aliceAddr))
	assert.Zero(t, f.balance(t, bobAddr))
}

func TestTransfer_ToSelf(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 10, ""))

	err := f.serv.Transfer(as(context.Background(), aliceAddr), aliceAddr, 5)
	assert.Error(t, err)
}

func TestPayOut(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, ""))

	err := f.serv.PayOut(as(context.Background(), aliceAddr), "external-wallet", 60)
	require.NoError(t, err)

	assert.EqualValues(t, 40, f.balance(t, aliceAddr))
	assert.EqualValues(t, 60, f.ledger.transfers["external-wallet"])

	report, err := f.serv.CheckConservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.EqualValues(t, 100, report.TotalCredited)
	assert.EqualValues(t, 60, report.TotalPaidOut)
}

func TestPayOut_UnsupportedRecipient(t *testing.T) {
	f := newFixture(t)
	f.ledger.receivable = false

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, ""))

	err := f.serv.PayOut(as(context.Background(), aliceAddr), "broken-wallet", 60)
	assert.ErrorIs(t, err, model.ErrUnsupportedRecipient)

	// Средства не тронуты
	assert.EqualValues(t, 100, f.balance(t, aliceAddr))
	assert.Empty(t, f.ledger.transfers)
}

func TestPayOut_TransferFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.ledger.transferErr = errors.New("ledger down")

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, ""))

	err := f.serv.PayOut(as(context.Background(), aliceAddr), "external-wallet", 60)
	assert.Error(t, err)

	// Списание откатилось вместе с несостоявшимся внешним переводом
	assert.EqualValues(t, 100, f.balance(t, aliceAddr))

	report, err := f.serv.CheckConservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Zero(t, report.TotalPaidOut)
}

func TestConsumerOps_Lock(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, ""))

	require.NoError(t, f.ops.Lock(context.Background(), aliceAddr, 40))

	assert.EqualValues(t, 60, f.balance(t, aliceAddr))

	locked, err := f.serv.LockedOf(context.Background(), aliceAddr, consumerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 40, locked)

	err = f.ops.Lock(context.Background(), aliceAddr, 61)
	assert.ErrorIs(t, err, model.ErrInsufficientAvailable)

	err = f.ops.Lock(context.Background(), aliceAddr, 0)
	assert.ErrorIs(t, err, model.ErrZeroAmount)
}

func TestConsumerOps_UnlockAndRedistribute(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 100, consumerAddr))

	err := f.ops.UnlockAndRedistribute(context.Background(), aliceAddr, 70, []model.BalanceDelta{
		{Depositor: bobAddr, Amount: 20},
		{Depositor: ownerAddr, Amount: 10},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 70, f.balance(t, aliceAddr))
	assert.EqualValues(t, 20, f.balance(t, bobAddr))
	assert.EqualValues(t, 10, f.balance(t, ownerAddr))

	locked, err := f.serv.LockedOf(context.Background(), aliceAddr, consumerAddr)
	require.NoError(t, err)
	assert.Zero(t, locked)

	report, err := f.serv.CheckConservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestConsumerOps_UnlockInsufficientLocked(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 10, consumerAddr))

	err := f.ops.UnlockAndRedistribute(context.Background(), aliceAddr, 11, nil)
	assert.ErrorIs(t, err, model.ErrInsufficientLocked)

	locked, err := f.serv.LockedOf(context.Background(), aliceAddr, consumerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 10, locked)
}

func TestConsumerOps_UnlockAndPayOut_NoExternalTransferOnFailure(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 8, consumerAddr))

	// Дебет боба невозможен, операция обязана провалиться целиком,
	// включая внешний перевод высвобожденной части
	err := f.ops.UnlockAndPayOut(context.Background(), aliceAddr, 4, []model.BalanceDelta{
		{Depositor: bobAddr, Amount: -5},
	})
	assert.ErrorIs(t, err, model.ErrInsufficientAvailable)

	assert.Empty(t, f.ledger.transfers)

	locked, err := f.serv.LockedOf(context.Background(), aliceAddr, consumerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 8, locked)

	report, err := f.serv.CheckConservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Zero(t, report.TotalPaidOut)
}

func TestConsumerOps_UnlockAndPayOut_TransferFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.ledger.transferErr = errors.New("ledger down")

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 8, consumerAddr))

	err := f.ops.UnlockAndPayOut(context.Background(), aliceAddr, 8, nil)
	assert.Error(t, err)

	locked, err := f.serv.LockedOf(context.Background(), aliceAddr, consumerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 8, locked)

	report, err := f.serv.CheckConservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Zero(t, report.TotalPaidOut)
}

func TestConsumerOps_NegativeDeltaOverdraftRejected(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.serv.CreditFromNotification(asLedger(context.Background()), aliceAddr, 10, consumerAddr))

	// У боба нечем платить - вся операция откатывается
	err := f.ops.UnlockAndRedistribute(context.Background(), aliceAddr, 15, []model.BalanceDelta{
		{Depositor: bobAddr, Amount: -5},
	})
	assert.ErrorIs(t, err, model.ErrInsufficientAvailable)

	locked, err := f.serv.LockedOf(context.Background(), aliceAddr, consumerAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 10, locked)
	assert.Zero(t, f.balance(t, aliceAddr))
}
