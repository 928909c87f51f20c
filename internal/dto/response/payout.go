package response

import (
	"time"

	"travel-booking/internal/data/entity"
)

type PayoutResponse struct {
	ID               string              `json:"id"`
	BookingItemID    string              `json:"booking_item_id"`
	ProviderID       string              `json:"provider_id"`
	Amount           int64               `json:"amount"`
	PlatformFee      int64               `json:"platform_fee"`
	NetAmount        int64               `json:"net_amount"`
	Status           entity.PayoutStatus `json:"status"`
	SettlementPeriod string              `json:"settlement_period"`
	CreatedAt        time.Time           `json:"created_at"`
}

func PayoutToResponse(payout *entity.ProviderPayout) *PayoutResponse {
	return &PayoutResponse{
		ID:               payout.ID.String(),
		BookingItemID:    payout.BookingItemID.String(),
		ProviderID:       payout.ProviderID.String(),
		Amount:           payout.Amount,
		PlatformFee:      payout.PlatformFee,
		NetAmount:        payout.NetAmount,
		Status:           payout.Status,
		SettlementPeriod: payout.SettlementPeriod,
		CreatedAt:        payout.CreatedAt,
	}
}
