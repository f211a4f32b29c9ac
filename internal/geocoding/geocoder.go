package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

var ErrNoResults = errors.New("no results found for location")

type Geocoder struct {
	logger    *logrus.Logger
	cacheDir  string
	cache     map[string][]float64
	cacheLock sync.RWMutex
	saveLock  sync.Mutex
	client    *http.Client
	baseURL   string

	// Minimum delay between Nominatim requests
	interval time.Duration
	rateLock sync.Mutex
	lastCall time.Time
}

func NewGeocoder(logger *logrus.Logger, cacheDir string) *Geocoder {
	if logger == nil {
		logger = logrus.New()
	}

	if cacheDir != "" {
		// Create cache directory if it doesn't exist
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			logger.WithError(err).Warn("Could not create geocode cache directory")
		}
	}

	g := &Geocoder{
		logger:   logger,
		cacheDir: cacheDir,
		cache:    make(map[string][]float64),
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  defaultNominatimURL,
		interval: time.Second,
	}

	g.loadCache()

	return g
}

// WithBaseURL points the geocoder at another Nominatim host
func (g *Geocoder) WithBaseURL(baseURL string) *Geocoder {
	g.baseURL = strings.TrimRight(baseURL, "/")
	return g
}

// WithInterval changes the delay kept between remote lookups
func (g *Geocoder) WithInterval(interval time.Duration) *Geocoder {
	g.interval = interval
	return g
}

func (g *Geocoder) cacheFile() string {
	return filepath.Join(g.cacheDir, "geocode_cache.json")
}

func (g *Geocoder) loadCache() {
	if g.cacheDir == "" {
		return
	}

	data, err := os.ReadFile(g.cacheFile())
	if err != nil {
		if !os.IsNotExist(err) {
			g.logger.Warnf("Could not load geocode cache: %v", err)
		}
		return
	}

	if err := json.Unmarshal(data, &g.cache); err != nil {
		g.logger.Errorf("Failed to parse geocode cache: %v", err)
		return
	}

	g.logger.Infof("Loaded %d cached locations", len(g.cache))
}

func (g *Geocoder) saveCache() {
	if g.cacheDir == "" {
		return
	}

	g.saveLock.Lock()
	defer g.saveLock.Unlock()

	g.cacheLock.RLock()
	data, err := json.Marshal(g.cache)
	g.cacheLock.RUnlock()
	if err != nil {
		g.logger.Errorf("Failed to marshal geocode cache: %v", err)
		return
	}

	if err := os.WriteFile(g.cacheFile(), data, 0644); err != nil {
		g.logger.Errorf("Failed to save geocode cache: %v", err)
		return
	}

	g.logger.Debug("Saved geocode cache to disk")
}

type nominatimResponse []struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func cacheKey(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

// wait keeps at least interval between remote lookups
func (g *Geocoder) wait(ctx context.Context) error {
	g.rateLock.Lock()
	defer g.rateLock.Unlock()

	if next := g.lastCall.Add(g.interval); time.Now().Before(next) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(next)):
		}
	}
	g.lastCall = time.Now()
	return nil
}

// GeocodeLocation resolves a free-form property location to latitude and
// longitude. Results are cached in memory and on disk.
func (g *Geocoder) GeocodeLocation(ctx context.Context, location string) (float64, float64, error) {
	key := cacheKey(location)
	if key == "" {
		return 0, 0, fmt.Errorf("location is empty")
	}

	// Check cache first
	g.cacheLock.RLock()
	coords, ok := g.cache[key]
	g.cacheLock.RUnlock()
	if ok {
		if len(coords) == 2 {
			g.logger.WithFields(logrus.Fields{
				"location":  location,
				"latitude":  coords[0],
				"longitude": coords[1],
				"source":    "cache",
			}).Debug("Found coordinates in cache")
			return coords[0], coords[1], nil
		}
		return 0, 0, fmt.Errorf("invalid cached coordinates")
	}

	g.logger.WithField("location", location).Info("Geocoding location with Nominatim")

	// Respect Nominatim's usage policy
	if err := g.wait(ctx); err != nil {
		return 0, 0, err
	}

	params := url.Values{
		"q":            []string{location},
		"format":       []string{"json"},
		"limit":        []string{"1"},
		"countrycodes": []string{"in"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search", nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", "Sitrus Property Catalog/1.0")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.WithError(err).WithField("location", location).Error("Geocoding request failed")
		return 0, 0, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		g.logger.WithError(err).WithField("location", location).Error("Failed to parse response")
		return 0, 0, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result) == 0 {
		g.logger.WithField("location", location).Warn("No results found")
		return 0, 0, fmt.Errorf("%w: %s", ErrNoResults, location)
	}

	lat, err := strconv.ParseFloat(result[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", result[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(result[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", result[0].Lon, err)
	}

	g.logger.WithFields(logrus.Fields{
		"location":  location,
		"latitude":  lat,
		"longitude": lon,
		"source":    "nominatim",
	}).Info("Successfully geocoded location")

	g.cacheLock.Lock()
	g.cache[key] = []float64{lat, lon}
	g.cacheLock.Unlock()

	g.saveCache()

	return lat, lon, nil
}
