package email

import (
	"context"
	"fmt"

	"github.com/solnguyen93/flightcast/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.FlightEvent) error {
	switch event.Type {
	case kafka.EventFlightSaved:
		fmt.Printf("send email to %s: saved flight %s (%s -> %s, %s)\n",
			event.Email, event.OfferID, event.DepartureCode, event.ArrivalCode, event.Price)
	case kafka.EventUserSignedUp:
		fmt.Printf("send welcome email to %s\n", event.Email)
	default:
		fmt.Printf("send email to %s about %s\n", event.Email, event.Type)
	}
	return nil
}
