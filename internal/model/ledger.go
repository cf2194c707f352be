package model

// BalanceDelta - подписанное изменение доступного баланса депозитора.
// Положительное значение - зачисление, отрицательное - списание.
type BalanceDelta struct {
	Depositor string
	Amount    int64
}

// LedgerTotals - накопительные счетчики реестра: сколько актива всего
// было зачислено через уведомления и сколько выплачено наружу.
type LedgerTotals struct {
	TotalCredited int64
	TotalPaidOut  int64
}

// ConservationReport - результат проверки инварианта сохранения:
// сумма доступных и заблокированных средств должна совпадать
// с разницей зачисленного и выплаченного.
type ConservationReport struct {
	TotalAvailable int64
	TotalLocked    int64
	TotalCredited  int64
	TotalPaidOut   int64
	Consistent     bool
}
