package models

// OutboundMessageRequest is a message pushed to a phone through the business number.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// BarberMessageRequest is a manager note addressed to a registered barber.
type BarberMessageRequest struct {
	BarberID string `json:"barber_id" binding:"required"`
	Message  string `json:"message" binding:"required"`
}
