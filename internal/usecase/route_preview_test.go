package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "medtour-itinerary-service/pkg/errors"
)

func TestRoutePreviewer_Preview(t *testing.T) {
	f := newFixture(t, newOrder("unused", 0, nil))
	p := NewRoutePreviewer(f.resolver, f.builder, f.clock)

	preview, err := p.Preview(context.Background(), " New York ", "Changchun", at(1, 0, 0), "")
	require.NoError(t, err)
	assert.Equal(t, TierTable, preview.Route.Source)
	assert.False(t, preview.Details.IsDirect)
	assert.Equal(t, at(1, 0, 0), preview.Details.Departure())

	again, err := p.Preview(context.Background(), "New York", "Changchun", at(1, 0, 0), "")
	require.NoError(t, err)
	assert.Equal(t, preview.Details, again.Details)
}

func TestRoutePreviewer_DefaultDeparture(t *testing.T) {
	f := newFixture(t, newOrder("unused", 0, nil))
	p := NewRoutePreviewer(f.resolver, f.builder, f.clock)

	preview, err := p.Preview(context.Background(), "Tokyo", "Beijing", time.Time{}, "order-1")
	require.NoError(t, err)
	assert.Equal(t, atClock(f.now.AddDate(0, 0, 1), 10, 0), preview.Details.Departure())
}

func TestRoutePreviewer_RequiresBothCities(t *testing.T) {
	f := newFixture(t, newOrder("unused", 0, nil))
	_, err := NewRoutePreviewer(f.resolver, f.builder, f.clock).Preview(context.Background(), "", "Beijing", at(1, 0, 0), "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
