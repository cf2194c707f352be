package deposit

type NotifyRequest struct {
	From     string `json:"from"`     // Адрес депозитора-отправителя
	Amount   int64  `json:"amount"`   // Сумма входящего перевода
	Consumer string `json:"consumer"` // Адрес потребителя (пусто - обычный депозит)
}

type TransferRequest struct {
	To     string `json:"to"`     // Адрес получателя внутри реестра
	Amount int64  `json:"amount"` // Сумма перевода
}

type PayOutRequest struct {
	To     string `json:"to"`     // Адрес внешнего кошелька
	Amount int64  `json:"amount"` // Сумма выплаты
}

type BalanceResponse struct {
	Address   string `json:"address"`
	Available int64  `json:"available"`
}

type LockedResponse struct {
	Depositor string `json:"depositor"`
	Consumer  string `json:"consumer"`
	Locked    int64  `json:"locked"`
}

type ConservationResponse struct {
	TotalAvailable int64 `json:"total_available"`
	TotalLocked    int64 `json:"total_locked"`
	TotalCredited  int64 `json:"total_credited"`
	TotalPaidOut   int64 `json:"total_paid_out"`
	Consistent     bool  `json:"consistent"`
}
