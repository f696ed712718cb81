package event

import (
	"context"
	"log/slog"

	"github.com/utafrali/catalog-readpath/internal/cache"
	"github.com/utafrali/catalog-readpath/internal/domain"
	"github.com/utafrali/catalog-readpath/pkg/kafka"
)

// Catalog mutation event types, matching the topic suffixes.
const (
	EntryCreated = "catalog.entry-created"
	EntryUpdated = "catalog.entry-updated"
	EntryDeleted = "catalog.entry-deleted"
)

// Topics returns the catalog mutation topics this service consumes.
func Topics() []string {
	return []string{
		kafka.Topic("catalog", "entry-created"),
		kafka.Topic("catalog", "entry-updated"),
		kafka.Topic("catalog", "entry-deleted"),
	}
}

// Index is the slice of the search service the sync needs. Index maintenance
// absorbs its own failures, so neither method returns an error.
type Index interface {
	IndexEntry(ctx context.Context, entry *domain.CatalogEntry)
	RemoveEntry(ctx context.Context, id string)
}

// Invalidator enqueues cache purges.
type Invalidator interface {
	Invalidate(family cache.Family, callerID string)
}

// CatalogSync applies catalog mutation events to the search index and stales
// the affected cache entries.
type CatalogSync struct {
	index       Index
	invalidator Invalidator
	logger      *slog.Logger
}

// NewCatalogSync creates a catalog event handler.
func NewCatalogSync(index Index, invalidator Invalidator, logger *slog.Logger) *CatalogSync {
	return &CatalogSync{
		index:       index,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Handle processes one catalog mutation event. Unknown event types are
// acknowledged and skipped so mixed-topic groups never wedge.
func (s *CatalogSync) Handle(ctx context.Context, event *kafka.Event) error {
	switch event.EventType {
	case EntryCreated, EntryUpdated:
		var entry domain.CatalogEntry
		if err := event.UnmarshalData(&entry); err != nil {
			s.logger.Error("failed to decode catalog entry payload",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if entry.ID == "" {
			entry.ID = event.AggregateID
		}
		s.index.IndexEntry(ctx, &entry)

	case EntryDeleted:
		s.index.RemoveEntry(ctx, event.AggregateID)

	default:
		s.logger.Debug("ignoring unrecognized event type",
			slog.String("event_type", event.EventType),
		)
		return nil
	}

	s.invalidator.Invalidate(cache.FamilyCatalog, "")
	return nil
}

// NewConsumers builds one consumer per catalog topic, all sharing a group and
// the sync handler.
func NewConsumers(brokers []string, groupID string, sync *CatalogSync, logger *slog.Logger) []*kafka.Consumer {
	consumers := make([]*kafka.Consumer, 0, len(Topics()))
	for _, topic := range Topics() {
		consumers = append(consumers, kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}, sync.Handle, logger))
	}
	return consumers
}
