package converter

import (
	"custody_backend/internal/api/dto/subscription"
	"custody_backend/internal/model"
)

func ToSubscriptionResponse(sub *model.Subscription) subscription.SubscriptionResponse {
	return subscription.SubscriptionResponse{
		Subscriber:   sub.Subscriber,
		Price:        sub.Price,
		Timepoint:    sub.Timepoint.Unix(),
		AmountOfTime: sub.AmountOfTime,
	}
}
