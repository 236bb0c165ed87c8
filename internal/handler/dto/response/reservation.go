package response

import (
	"time"

	"calmtable/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID               uuid.UUID  `json:"id"`
	UserID           *uuid.UUID `json:"userId,omitempty"`
	GuestName        string     `json:"guestName"`
	GuestEmail       string     `json:"guestEmail"`
	GuestPhone       string     `json:"guestPhone,omitempty"`
	Date             time.Time  `json:"date"`
	Slot             string     `json:"slot"`
	PartySize        int        `json:"partySize"`
	SpecialRequests  string     `json:"specialRequests,omitempty"`
	Status           string     `json:"status"`
	ConfirmationCode string     `json:"confirmationCode"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type SlotAvailabilityResponse struct {
	Slot      string `json:"slot"`
	Available bool   `json:"available"`
	Remaining int    `json:"remaining"`
}

type AvailabilityResponse struct {
	Date  time.Time                  `json:"date"`
	Slots []SlotAvailabilityResponse `json:"slots"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	resp := make([]*ReservationResponse, len(views))
	for i, view := range views {
		resp[i] = FromReservationView(view)
	}
	return resp
}

func FromAvailabilityView(view *queries.AvailabilityView) *AvailabilityResponse {
	var resp AvailabilityResponse
	_ = copier.Copy(&resp, view)
	if resp.Slots == nil {
		resp.Slots = []SlotAvailabilityResponse{}
	}
	return &resp
}
