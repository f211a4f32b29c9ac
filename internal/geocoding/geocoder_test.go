package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitrus/server/internal/models"
)

func nominatim(t *testing.T, hits *int32) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "in", r.URL.Query().Get("countrycodes"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		switch r.URL.Query().Get("q") {
		case "Panjim, Goa":
			fmt.Fprint(w, `[{"lat":"15.4909","lon":"73.8278"}]`)
		case "Broken":
			fmt.Fprint(w, `[{"lat":"north","lon":"73.8"}]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestGeocoder(t *testing.T, serverURL string) *Geocoder {
	return NewGeocoder(logrus.New(), t.TempDir()).
		WithBaseURL(serverURL).
		WithInterval(0)
}

func TestGeocodeLocation(t *testing.T) {
	var hits int32
	server := nominatim(t, &hits)
	g := newTestGeocoder(t, server.URL)
	ctx := context.Background()

	lat, lon, err := g.GeocodeLocation(ctx, "Panjim, Goa")
	require.NoError(t, err)
	assert.InDelta(t, 15.4909, lat, 1e-9)
	assert.InDelta(t, 73.8278, lon, 1e-9)

	// Second lookup is served from the cache, whatever the spacing or case
	lat, _, err = g.GeocodeLocation(ctx, "  panjim,   GOA ")
	require.NoError(t, err)
	assert.InDelta(t, 15.4909, lat, 1e-9)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGeocodeLocation_Errors(t *testing.T) {
	var hits int32
	server := nominatim(t, &hits)
	g := newTestGeocoder(t, server.URL)
	ctx := context.Background()

	_, _, err := g.GeocodeLocation(ctx, "Atlantis")
	assert.ErrorIs(t, err, ErrNoResults)

	_, _, err = g.GeocodeLocation(ctx, "Broken")
	assert.Error(t, err)

	_, _, err = g.GeocodeLocation(ctx, "   ")
	assert.Error(t, err)
}

func TestGeocodeCachePersists(t *testing.T) {
	var hits int32
	server := nominatim(t, &hits)
	dir := t.TempDir()

	first := NewGeocoder(logrus.New(), dir).WithBaseURL(server.URL).WithInterval(0)
	_, _, err := first.GeocodeLocation(context.Background(), "Panjim, Goa")
	require.NoError(t, err)

	second := NewGeocoder(logrus.New(), dir).WithBaseURL(server.URL).WithInterval(0)
	lat, _, err := second.GeocodeLocation(context.Background(), "Panjim, Goa")
	require.NoError(t, err)
	assert.InDelta(t, 15.4909, lat, 1e-9)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

// MockStore is a mock implementation of PropertyStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetPropertiesWithoutCoordinates(ctx context.Context) ([]models.Property, error) {
	args := m.Called()
	props, _ := args.Get(0).([]models.Property)
	return props, args.Error(1)
}

func (m *MockStore) UpdatePropertyCoordinates(ctx context.Context, id, location string, lat, lng float64) error {
	args := m.Called(id, location, lat, lng)
	return args.Error(0)
}

func TestLocator_UpdateMissingCoordinates(t *testing.T) {
	var hits int32
	server := nominatim(t, &hits)
	g := newTestGeocoder(t, server.URL)

	store := &MockStore{}
	store.On("GetPropertiesWithoutCoordinates").Return([]models.Property{
		{ID: "p1", Location: "Panjim, Goa"},
		{ID: "p2", Location: "Atlantis"},
	}, nil)
	store.On("UpdatePropertyCoordinates", "p1", "Panjim, Goa", 15.4909, 73.8278).Return(nil)

	locator := NewLocator(g, store, logrus.New())
	updated, err := locator.UpdateMissingCoordinates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "UpdatePropertyCoordinates", "p2", mock.Anything, mock.Anything, mock.Anything)
}

func TestLocator_StoreError(t *testing.T) {
	store := &MockStore{}
	store.On("GetPropertiesWithoutCoordinates").Return(nil, errors.New("db down"))

	locator := NewLocator(NewGeocoder(nil, ""), store, nil)
	_, err := locator.UpdateMissingCoordinates(context.Background())
	assert.Error(t, err)
}
