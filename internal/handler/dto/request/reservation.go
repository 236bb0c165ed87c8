package request

import (
	"time"

	"calmtable/internal/usecase/commands"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateReservationRequest struct {
	GuestName       string `json:"guest_name" binding:"required"`
	GuestEmail      string `json:"guest_email" binding:"required,email"`
	GuestPhone      string `json:"guest_phone"`
	Date            string `json:"date" binding:"required"`
	Slot            string `json:"slot" binding:"required"`
	PartySize       int    `json:"party_size" binding:"required"`
	SpecialRequests string `json:"special_requests"`
}

func (r CreateReservationRequest) ToInput(userID *uuid.UUID) (commands.CreateReservationInput, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	return commands.CreateReservationInput{
		UserID:          userID,
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		Date:            date,
		Slot:            r.Slot,
		PartySize:       r.PartySize,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
