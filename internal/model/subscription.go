package model

import "time"

// Subscription - покупка подписки: цена за единицу времени на момент покупки,
// момент покупки и количество купленных единиц времени.
type Subscription struct {
	ID           string
	Subscriber   string
	Price        int64
	Timepoint    time.Time
	AmountOfTime int64
}
