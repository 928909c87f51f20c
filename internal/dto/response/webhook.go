package response

// WebhookAckResponse acknowledges receipt to the gateway. Duplicate is set
// when the event id was seen before; the gateway treats both as success.
type WebhookAckResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
}
