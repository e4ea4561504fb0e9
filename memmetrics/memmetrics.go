// Package memmetrics exposes arena and slot map statistics as
// Prometheus collectors.
//
// The core allocation packages carry no telemetry of their own; they
// only expose Stats() snapshots. The collectors here pull a snapshot
// at scrape time, so registering one adds zero cost to the hot
// allocate/deallocate paths.
package memmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/qvntm/arenakit/arena"
	"github.com/qvntm/arenakit/slotmap"
	"github.com/qvntm/arenakit/typedarena"
)

type pagedArenaCollector struct {
	src func() arena.Stats

	pages    *prometheus.Desc
	used     *prometheus.Desc
	capacity *prometheus.Desc
}

// NewPagedArenaCollector returns a collector reporting page count and
// byte usage of a paged arena. name labels the arena instance; src is
// typically the arena's Stats method.
func NewPagedArenaCollector(name string, src func() arena.Stats) prometheus.Collector {
	labels := prometheus.Labels{"arena": name}
	return &pagedArenaCollector{
		src: src,
		pages: prometheus.NewDesc(
			"arenakit_paged_arena_pages",
			"Number of pages currently chained in the arena",
			nil, labels,
		),
		used: prometheus.NewDesc(
			"arenakit_paged_arena_used_bytes",
			"Bytes consumed across all pages, including alignment padding",
			nil, labels,
		),
		capacity: prometheus.NewDesc(
			"arenakit_paged_arena_capacity_bytes",
			"Total byte capacity across all pages",
			nil, labels,
		),
	}
}

func (c *pagedArenaCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pages
	ch <- c.used
	ch <- c.capacity
}

func (c *pagedArenaCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src()
	ch <- prometheus.MustNewConstMetric(c.pages, prometheus.GaugeValue, float64(s.Pages))
	ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(s.UsedBytes))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.CapacityBytes))
}

type typedArenaCollector struct {
	src func() typedarena.Stats

	watermark *prometheus.Desc
	free      *prometheus.Desc
	pages     *prometheus.Desc
}

// NewTypedArenaCollector returns a collector reporting watermark,
// recycler depth and page count of a typed paged arena.
func NewTypedArenaCollector(name string, src func() typedarena.Stats) prometheus.Collector {
	labels := prometheus.Labels{"arena": name}
	return &typedArenaCollector{
		src: src,
		watermark: prometheus.NewDesc(
			"arenakit_typed_arena_watermark",
			"Count of element indices ever issued",
			nil, labels,
		),
		free: prometheus.NewDesc(
			"arenakit_typed_arena_free_slots",
			"Indices currently waiting in the recycler",
			nil, labels,
		),
		pages: prometheus.NewDesc(
			"arenakit_typed_arena_pages",
			"Number of element pages allocated",
			nil, labels,
		),
	}
}

func (c *typedArenaCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.watermark
	ch <- c.free
	ch <- c.pages
}

func (c *typedArenaCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src()
	ch <- prometheus.MustNewConstMetric(c.watermark, prometheus.GaugeValue, float64(s.Watermark))
	ch <- prometheus.MustNewConstMetric(c.free, prometheus.GaugeValue, float64(s.Free))
	ch <- prometheus.MustNewConstMetric(c.pages, prometheus.GaugeValue, float64(s.Pages))
}

type slotMapCollector struct {
	src func() slotmap.Stats

	live    *prometheus.Desc
	slots   *prometheus.Desc
	retired *prometheus.Desc
}

// NewSlotMapCollector returns a collector reporting live element
// count, slots ever allocated and permanently retired slots of a
// slot map.
func NewSlotMapCollector(name string, src func() slotmap.Stats) prometheus.Collector {
	labels := prometheus.Labels{"slotmap": name}
	return &slotMapCollector{
		src: src,
		live: prometheus.NewDesc(
			"arenakit_slotmap_live_elements",
			"Number of live elements in the slot map",
			nil, labels,
		),
		slots: prometheus.NewDesc(
			"arenakit_slotmap_slots_total",
			"Slot indices ever allocated (watermark)",
			nil, labels,
		),
		retired: prometheus.NewDesc(
			"arenakit_slotmap_retired_slots",
			"Slots permanently taken out of rotation after generation exhaustion",
			nil, labels,
		),
	}
}

func (c *slotMapCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.live
	ch <- c.slots
	ch <- c.retired
}

func (c *slotMapCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src()
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(s.Live))
	ch <- prometheus.MustNewConstMetric(c.slots, prometheus.GaugeValue, float64(s.Slots))
	ch <- prometheus.MustNewConstMetric(c.retired, prometheus.GaugeValue, float64(s.Retired))
}
