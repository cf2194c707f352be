package game

type TransferToGameRequest struct {
	Amount int64 `json:"amount"` // Сумма перевода из доступного баланса в сессию
}

type SettleRequest struct {
	Player        string `json:"player"`         // Адрес игрока
	RemainBalance int64  `json:"remain_balance"` // Сколько оставить заблокированным
	FinalBalance  int64  `json:"final_balance"`  // Итоговый баланс игрока по версии расчетного центра
	SessionID     string `json:"session_id"`     // 32 байта в hex, пишется в аудит как есть
	AuthTag       string `json:"auth_tag"`       // 32 байта в hex, пишется в аудит как есть
}

type SettleResponse struct {
	Released     int64 `json:"released"`      // Высвобождено игроку
	ReserveDelta int64 `json:"reserve_delta"` // Изменение баланса резерва
	DevDelta     int64 `json:"dev_delta"`     // Изменение баланса разработчика
	Remaining    int64 `json:"remaining"`     // Осталось заблокировано
	Closed       bool  `json:"closed"`        // Сессия закрыта
}

type SessionResponse struct {
	Player string `json:"player"`
	IsOpen bool   `json:"is_open"`
	Locked int64  `json:"locked"`
}

type EventResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Player       string `json:"player"`
	Amount       int64  `json:"amount"`
	Released     int64  `json:"released"`
	ReserveDelta int64  `json:"reserve_delta"`
	DevDelta     int64  `json:"dev_delta"`
	Remaining    int64  `json:"remaining"`
	SessionID    string `json:"session_id"` // hex
	AuthTag      string `json:"auth_tag"`   // hex
	CreatedAt    int64  `json:"created_at"` // unix
}
