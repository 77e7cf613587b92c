package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/cleriovision/musicdb/src/music"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// TracksImported counts tracks newly added to the catalog.
	TracksImported = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "musicdb_tracks_imported_total",
		Help: "Number of tracks newly added to the catalog.",
	})

	// TracksUpdated counts tracks refreshed in place on re-import.
	TracksUpdated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "musicdb_tracks_updated_total",
		Help: "Number of existing tracks updated on re-import.",
	})

	// ImportErrors counts files that failed during scan or reconciliation.
	ImportErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "musicdb_import_errors_total",
		Help: "Number of files that failed during import.",
	})

	// ImportDuration observes how long full import runs take.
	ImportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "musicdb_import_duration_seconds",
		Help:    "Duration of import runs in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
	})
)

// ObserveImport records the outcome of one import run.
func ObserveImport(imported, updated, errors int, elapsed time.Duration) {
	TracksImported.Add(float64(imported))
	TracksUpdated.Add(float64(updated))
	ImportErrors.Add(float64(errors))
	ImportDuration.Observe(elapsed.Seconds())
}

// CatalogCollector exports catalog counts as gauges, read from the store at
// scrape time.
type CatalogCollector struct {
	catalog music.Catalog

	artists  *prometheus.Desc
	albums   *prometheus.Desc
	tracks   *prometheus.Desc
	duration *prometheus.Desc
}

// NewCatalogCollector creates a collector over the given catalog.
func NewCatalogCollector(catalog music.Catalog) *CatalogCollector {
	return &CatalogCollector{
		catalog:  catalog,
		artists:  prometheus.NewDesc("musicdb_artists", "Number of artists in the catalog.", nil, nil),
		albums:   prometheus.NewDesc("musicdb_albums", "Number of albums in the catalog.", nil, nil),
		tracks:   prometheus.NewDesc("musicdb_tracks", "Number of tracks in the catalog.", nil, nil),
		duration: prometheus.NewDesc("musicdb_total_duration_seconds", "Total duration of all tracks in seconds.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *CatalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.artists
	ch <- c.albums
	ch <- c.tracks
	ch <- c.duration
}

// Collect implements prometheus.Collector.
func (c *CatalogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := c.catalog.Stats(ctx)
	if err != nil {
		slog.Warn("Failed to collect catalog stats for metrics", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.artists, prometheus.GaugeValue, float64(stats.ArtistCount))
	ch <- prometheus.MustNewConstMetric(c.albums, prometheus.GaugeValue, float64(stats.AlbumCount))
	ch <- prometheus.MustNewConstMetric(c.tracks, prometheus.GaugeValue, float64(stats.TrackCount))
	ch <- prometheus.MustNewConstMetric(c.duration, prometheus.GaugeValue, float64(stats.TotalDurationSeconds))
}

// NewRegistry builds a registry with the import counters and catalog gauges.
func NewRegistry(catalog music.Catalog) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(TracksImported, TracksUpdated, ImportErrors, ImportDuration)
	registry.MustRegister(NewCatalogCollector(catalog))
	return registry
}
