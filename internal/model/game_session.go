package model

// GameSession - игровая сессия игрока в рамках одного игрового контракта (consumer).
// Сессия открыта тогда и только тогда, когда Locked > 0.
type GameSession struct {
	Consumer string
	Player   string
	Locked   int64
	IsOpen   bool
}

// SettlementRequest - запрос на закрытие/расчет игровой сессии от расчетного центра.
// SessionID и AuthTag - непрозрачные 32-байтовые значения, пишутся в аудит как есть.
type SettlementRequest struct {
	Player        string
	RemainBalance int64
	FinalBalance  int64
	SessionID     [32]byte
	AuthTag       [32]byte
}

// SettlementResult - итог расчета сессии.
type SettlementResult struct {
	Released     int64 // сколько высвобождено игроку (в депозит или на кошелек)
	ReserveDelta int64 // изменение баланса резерва платформы
	DevDelta     int64 // изменение баланса разработчика игры
	Remaining    int64 // сколько осталось заблокировано
	Closed       bool
}
