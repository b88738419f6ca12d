// Package qr implements the ticket QR payload codec: a JSON triple
// identifying the ticket, encoded into the scannable image shown to the
// holder and decoded back from whatever the scanner captured.
//
// The payload is deliberately unsigned. Anyone who can read a valid code can
// reconstruct it; single-use redemption is the only revocation mechanism.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrInvalidPayload is returned when scanned data does not decode to a
// complete payload.
var ErrInvalidPayload = errors.New("invalid qr payload")

type Payload struct {
	TicketID string `json:"ticketId"`
	EventID  string `json:"eventId"`
	UserID   string `json:"userId"`
}

// Encode serialises the payload to the string embedded in the QR image.
func Encode(p Payload) (string, error) {
	if p.TicketID == "" || p.EventID == "" || p.UserID == "" {
		return "", ErrInvalidPayload
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses scanned QR data back into a payload. Any input that fails to
// parse or is missing a field is rejected with ErrInvalidPayload.
func Decode(raw string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, ErrInvalidPayload
	}
	if p.TicketID == "" || p.EventID == "" || p.UserID == "" {
		return Payload{}, ErrInvalidPayload
	}
	return p, nil
}

const imageSize = 300

// slate-800 on white, matching the dashboard theme
var foreground = color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}

// DataURL renders the encoded payload as a PNG data URL suitable for
// direct use in an <img> tag.
func DataURL(encoded string) (string, error) {
	code, err := qrcode.New(encoded, qrcode.Medium)
	if err != nil {
		return "", err
	}
	code.ForegroundColor = foreground
	code.BackgroundColor = color.White

	png, err := code.PNG(imageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
