package consumer

import (
	"encoding/json"
	"log"

	"github.com/campusflow/ticketing/internal/dto"
	"github.com/campusflow/ticketing/internal/realtime"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CheckInConsumer relays broker deliveries into the local hub so dashboards
// connected to this instance see check-ins committed by any instance.
type CheckInConsumer struct {
	hub *realtime.Hub
}

func NewCheckInConsumer(hub *realtime.Hub) *CheckInConsumer {
	return &CheckInConsumer{hub: hub}
}

func (cc *CheckInConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			cc.handleMessage(msg)
		}
		log.Println("[CheckInConsumer] channel closed, stopping consumer")
	}()
}

func (cc *CheckInConsumer) handleMessage(msg amqp.Delivery) {
	var evt dto.CheckInEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		log.Printf("[CheckInConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}
	if evt.EventID == "" {
		log.Printf("[CheckInConsumer] dropping message without event id")
		msg.Nack(false, false)
		return
	}

	_ = cc.hub.NotifyCheckIn(evt.EventID, evt)
	msg.Ack(false)
}
