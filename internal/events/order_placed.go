package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

const (
	EventTypeOrderPlaced = "OrderPlaced"
	orderPlacedVersion   = 1
	orderPlacedSchema    = "contracts/events/storefront/OrderPlaced.v1.payload.schema.json"

	// CartPartitionKey orders OrderPlaced events of the single shared cart.
	CartPartitionKey = "storefront-cart"
)

type OrderPlacedItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

type OrderPlacedPayload struct {
	OrderID       int64             `json:"orderId"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	Items         []OrderPlacedItem `json:"items"`
	TotalAmount   float64           `json:"totalAmount"`
	Timestamp     time.Time         `json:"timestamp"`
}

type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

func newOrderPlacedPayload(o order.Order) OrderPlacedPayload {
	payload := OrderPlacedPayload{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Items:         make([]OrderPlacedItem, 0, len(o.Items)),
		TotalAmount:   money.Float(o.Total),
		Timestamp:     o.CreatedAt.UTC(),
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, OrderPlacedItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     money.Float(it.Price),
			Subtotal:  money.Float(it.Subtotal),
		})
	}
	return payload
}

func newOrderPlacedEvent(meta EnvelopeMetadata, seq *int64, producer string, payload OrderPlacedPayload, occurredAt time.Time) OrderPlacedEnvelope {
	return OrderPlacedEnvelope{
		EventName:     EventTypeOrderPlaced,
		EventVersion:  orderPlacedVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      producer,
		PartitionKey:  CartPartitionKey,
		Sequence:      seq,
		OccurredAt:    occurredAt,
		Schema:        orderPlacedSchema,
		Payload:       payload,
	}
}
