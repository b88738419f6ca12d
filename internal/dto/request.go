package dto

type CreateEventRequest struct {
	Title       string  `json:"title"`
	Capacity    int     `json:"capacity"`
	TicketPrice float64 `json:"ticketPrice"`
}

type CheckInQRRequest struct {
	QRData string `json:"qrData"`
}

type CheckInManualRequest struct {
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
}
