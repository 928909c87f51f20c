package request

type MarkPayoutRequest struct {
	Status string `json:"status" validate:"required,oneof=paid failed"`
}
