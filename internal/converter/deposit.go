package converter

import (
	"custody_backend/internal/api/dto/deposit"
	"custody_backend/internal/model"
)

func ToBalanceResponse(address string, available int64) deposit.BalanceResponse {
	return deposit.BalanceResponse{
		Address:   address,
		Available: available,
	}
}

func ToLockedResponse(depositor, consumer string, locked int64) deposit.LockedResponse {
	return deposit.LockedResponse{
		Depositor: depositor,
		Consumer:  consumer,
		Locked:    locked,
	}
}

func ToConservationResponse(report *model.ConservationReport) deposit.ConservationResponse {
	return deposit.ConservationResponse{
		TotalAvailable: report.TotalAvailable,
		TotalLocked:    report.TotalLocked,
		TotalCredited:  report.TotalCredited,
		TotalPaidOut:   report.TotalPaidOut,
		Consistent:     report.Consistent,
	}
}
