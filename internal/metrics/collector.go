package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the viewer's decode/render metrics on its own registry so
// several sessions (and tests) never collide on the default registerer.
type Collector struct {
	registry *prometheus.Registry

	decodeTotal       *prometheus.CounterVec
	renderTotal       *prometheus.CounterVec
	supersededTotal   prometheus.Counter
	decodedPlacements prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		decodeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boardview_decode_total",
				Help: "Position buffer decodes by result",
			},
			[]string{"result"},
		),
		renderTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boardview_render_total",
				Help: "Board renders by result",
			},
			[]string{"result"},
		),
		supersededTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "boardview_render_superseded_total",
				Help: "Render requests dropped in favour of a newer one",
			},
		),
		decodedPlacements: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "boardview_decoded_placements",
				Help:    "Placements per successful decode",
				Buckets: prometheus.LinearBuckets(0, 4, 9),
			},
		),
	}
	c.registry.MustRegister(c.decodeTotal, c.renderTotal, c.supersededTotal, c.decodedPlacements)
	return c
}

// Registry exposes the collector's registry for gathering.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordDecode counts a decode; result is "ok" or an error class.
func (c *Collector) RecordDecode(result string, placements int) {
	if c == nil {
		return
	}
	c.decodeTotal.WithLabelValues(result).Inc()
	if result == ResultOK {
		c.decodedPlacements.Observe(float64(placements))
	}
}

func (c *Collector) RecordRender(result string) {
	if c == nil {
		return
	}
	c.renderTotal.WithLabelValues(result).Inc()
}

func (c *Collector) RecordSuperseded() {
	if c == nil {
		return
	}
	c.supersededTotal.Inc()
}

// WriteTextfile dumps all metrics in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

const (
	ResultOK             = "ok"
	ResultUnknownCount   = "unknown_count"
	ResultMalformed      = "malformed"
	ResultDuplicate      = "duplicate"
	ResultEngineError    = "engine_error"
	ResultInvalidRequest = "invalid"
)
