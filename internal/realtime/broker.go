package realtime

import (
	"github.com/campusflow/ticketing/internal/dto"
	"github.com/campusflow/ticketing/pkg/rabbitmq"
)

// BrokerNotifier routes check-in notifications through RabbitMQ instead of
// the local hub, so dashboards connected to any instance see redemptions
// committed by every instance. Each instance's consumer relays deliveries
// back into its own hub.
type BrokerNotifier struct {
	pub *rabbitmq.Publisher
}

func NewBrokerNotifier(pub *rabbitmq.Publisher) *BrokerNotifier {
	return &BrokerNotifier{pub: pub}
}

func (b *BrokerNotifier) NotifyCheckIn(eventID string, evt dto.CheckInEvent) error {
	return b.pub.Publish("checkin."+eventID, evt)
}
