package parking

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"smart-parking/internal/logging"
)

// OccupancyReporter exposes per-lot spot counts as Prometheus gauges and
// logs periodic snapshots. It reads availability without the lot guard.
type OccupancyReporter struct {
	svc       *Service
	spotsDesc *prometheus.Desc
}

func NewOccupancyReporter(svc *Service) *OccupancyReporter {
	return &OccupancyReporter{
		svc: svc,
		spotsDesc: prometheus.NewDesc(
			"smart_parking_spots",
			"Number of parking spots per lot, spot type and state.",
			[]string{"lot_id", "spot_type", "state"},
			nil,
		),
	}
}

func (r *OccupancyReporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- r.spotsDesc
}

func (r *OccupancyReporter) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()
	for _, lot := range r.svc.ListLots(ctx) {
		avail, err := r.svc.Availability(ctx, lot.ID)
		if err != nil {
			continue
		}
		for _, st := range SpotTypes {
			ch <- prometheus.MustNewConstMetric(r.spotsDesc, prometheus.GaugeValue,
				float64(avail.Free[st]), lot.ID, string(st), "free")
			ch <- prometheus.MustNewConstMetric(r.spotsDesc, prometheus.GaugeValue,
				float64(avail.Occupied[st]), lot.ID, string(st), "occupied")
		}
	}
}

// Snapshot logs one entry per lot with its current counts.
func (r *OccupancyReporter) Snapshot(ctx context.Context) int {
	lots := r.svc.ListLots(ctx)
	for _, lot := range lots {
		avail, err := r.svc.Availability(ctx, lot.ID)
		if err != nil {
			logging.Warnf(ctx, "occupancy snapshot skipped lot %s: %v", lot.ID, err)
			continue
		}
		logging.WithFields(ctx, map[string]interface{}{
			"event":    "occupancy_snapshot",
			"lot_id":   lot.ID,
			"lot_name": lot.Name,
			"free":     avail.Free,
			"occupied": avail.Occupied,
			"total":    avail.Total,
		}).Info("occupancy snapshot")
	}
	return len(lots)
}

// Schedule registers the snapshot job on c using a cron spec such as
// "@every 1m".
func (r *OccupancyReporter) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		r.Snapshot(context.Background())
	})
}
