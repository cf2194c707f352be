package subscription

type PriceResponse struct {
	Price int64 `json:"price"` // Цена за единицу времени
}

type SetPriceRequest struct {
	Price int64 `json:"price"`
}

type SubscribeRequest struct {
	AmountOfTime int64 `json:"amount_of_time"` // Сколько единиц времени купить
}

type SubscriptionResponse struct {
	Subscriber   string `json:"subscriber"`
	Price        int64  `json:"price"`
	Timepoint    int64  `json:"timepoint"` // unix
	AmountOfTime int64  `json:"amount_of_time"`
}
