package event

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-readpath/internal/cache"
	"github.com/utafrali/catalog-readpath/internal/domain"
	"github.com/utafrali/catalog-readpath/pkg/kafka"
)

type recordingIndex struct {
	indexed []domain.CatalogEntry
	removed []string
}

func (r *recordingIndex) IndexEntry(_ context.Context, entry *domain.CatalogEntry) {
	r.indexed = append(r.indexed, *entry)
}

func (r *recordingIndex) RemoveEntry(_ context.Context, id string) {
	r.removed = append(r.removed, id)
}

type recordingInvalidator struct {
	families []cache.Family
}

func (r *recordingInvalidator) Invalidate(family cache.Family, _ string) {
	r.families = append(r.families, family)
}

func newSync(t *testing.T) (*CatalogSync, *recordingIndex, *recordingInvalidator) {
	t.Helper()

	index := &recordingIndex{}
	inv := &recordingInvalidator{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewCatalogSync(index, inv, logger), index, inv
}

func catalogEvent(t *testing.T, eventType, id string, payload any) *kafka.Event {
	t.Helper()

	event, err := kafka.NewEvent(eventType, id, "catalog_entry", "catalog-service", payload)
	require.NoError(t, err)
	return event
}

func TestHandleEntryCreatedIndexesAndInvalidates(t *testing.T) {
	sync, index, inv := newSync(t)

	entry := domain.CatalogEntry{ID: "p1", Name: "Widget", Active: true}
	err := sync.Handle(context.Background(), catalogEvent(t, EntryCreated, "p1", entry))
	require.NoError(t, err)

	require.Len(t, index.indexed, 1)
	assert.Equal(t, "p1", index.indexed[0].ID)
	assert.Equal(t, []cache.Family{cache.FamilyCatalog}, inv.families)
}

func TestHandleEntryUpdatedFillsIDFromAggregate(t *testing.T) {
	sync, index, _ := newSync(t)

	// Payload without an ID still resolves through the envelope.
	err := sync.Handle(context.Background(), catalogEvent(t, EntryUpdated, "p9", map[string]any{"name": "Renamed"}))
	require.NoError(t, err)

	require.Len(t, index.indexed, 1)
	assert.Equal(t, "p9", index.indexed[0].ID)
}

func TestHandleEntryDeletedRemovesAndInvalidates(t *testing.T) {
	sync, index, inv := newSync(t)

	err := sync.Handle(context.Background(), catalogEvent(t, EntryDeleted, "p1", nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, index.removed)
	assert.Equal(t, []cache.Family{cache.FamilyCatalog}, inv.families)
}

func TestHandleSkipsUnknownEventTypes(t *testing.T) {
	sync, index, inv := newSync(t)

	err := sync.Handle(context.Background(), catalogEvent(t, "order.created", "o1", nil))
	require.NoError(t, err)

	assert.Empty(t, index.indexed)
	assert.Empty(t, index.removed)
	assert.Empty(t, inv.families)
}

func TestHandleSkipsMalformedPayload(t *testing.T) {
	sync, index, _ := newSync(t)

	event := catalogEvent(t, EntryCreated, "p1", nil)
	event.Data = []byte(`{"price": "not-a-number"}`)

	// Malformed payloads are acknowledged, not retried forever.
	err := sync.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Empty(t, index.indexed)
}

func TestTopics(t *testing.T) {
	assert.Equal(t, []string{
		"ecommerce.catalog.entry-created",
		"ecommerce.catalog.entry-updated",
		"ecommerce.catalog.entry-deleted",
	}, Topics())
}
