package event

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/jannat-miftahul/plantnet/internal/domain"
	"github.com/jannat-miftahul/plantnet/internal/store"
	pkgkafka "github.com/jannat-miftahul/plantnet/pkg/kafka"
)

// Kafka topics for plant domain events consumed by the catalog service.
const (
	TopicPlantCreated = "plantnet.plant.created"
	TopicPlantUpdated = "plantnet.plant.updated"
	TopicPlantDeleted = "plantnet.plant.deleted"
)

// Topics returns all topics this consumer subscribes to.
func Topics() []string {
	return []string{TopicPlantCreated, TopicPlantUpdated, TopicPlantDeleted}
}

// PlantEventData is the payload of plant created/updated events.
type PlantEventData struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// PlantDeletedData is the payload of a plant.deleted event.
type PlantDeletedData struct {
	ID string `json:"id"`
}

// Consumer applies plant change events to the catalog snapshot so the
// storefront stays fresh between full refreshes.
type Consumer struct {
	store  *store.Store
	logger *slog.Logger
}

// NewConsumer creates an event consumer writing into the given store.
func NewConsumer(st *store.Store, logger *slog.Logger) *Consumer {
	return &Consumer{store: st, logger: logger}
}

// Handle processes a Kafka event based on its type.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicPlantCreated, TopicPlantUpdated:
		return c.handleUpsert(ctx, event)
	case TopicPlantDeleted:
		return c.handleDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (c *Consumer) handleUpsert(ctx context.Context, event *pkgkafka.Event) error {
	var data PlantEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}

	p, err := coerceEvent(data)
	if err != nil {
		// Malformed payloads are skipped, not retried: they will not get
		// better on a second attempt.
		c.logger.WarnContext(ctx, "skipping malformed plant event",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
			slog.String("reason", err.Error()),
		)
		return nil
	}

	c.store.Upsert(p)
	c.logger.InfoContext(ctx, "applied plant event to catalog",
		slog.String("event_type", event.EventType),
		slog.String("plant_id", p.ID),
	)
	return nil
}

func (c *Consumer) handleDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data PlantDeletedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal plant.deleted data: %w", err)
	}
	if data.ID == "" {
		c.logger.WarnContext(ctx, "skipping plant.deleted event without id",
			slog.String("event_id", event.EventID),
		)
		return nil
	}

	c.store.Delete(data.ID)
	c.logger.InfoContext(ctx, "removed plant from catalog",
		slog.String("plant_id", data.ID),
	)
	return nil
}

// coerceEvent applies the same boundary validation as the HTTP source.
func coerceEvent(data PlantEventData) (domain.Product, error) {
	id := strings.TrimSpace(data.ID)
	if id == "" {
		return domain.Product{}, fmt.Errorf("missing id")
	}
	name := strings.TrimSpace(data.Name)
	if name == "" {
		return domain.Product{}, fmt.Errorf("missing name")
	}
	if math.IsNaN(data.Price) || math.IsInf(data.Price, 0) || data.Price < 0 {
		return domain.Product{}, fmt.Errorf("invalid price %v", data.Price)
	}

	quantity := data.Quantity
	if quantity < 0 {
		quantity = 0
	}

	return domain.Product{
		ID:       id,
		Name:     name,
		Category: strings.TrimSpace(data.Category),
		Price:    data.Price,
		Quantity: quantity,
		Image:    strings.TrimSpace(data.Image),
	}, nil
}
