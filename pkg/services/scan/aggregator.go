package scan

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultRegions is scanned when the caller supplies no region list.
var DefaultRegions = []string{"us-east-1", "us-west-2"}

const probeConcurrency = 4

// Aggregator runs every probe against one credential pair and merges their
// findings into a single ScanResult. Probes are independent: a failing
// probe is logged and contributes nothing, and the scan still reports
// success. Everything the aggregator builds lives only for the duration of
// the call.
type Aggregator struct {
	probes []Probe
}

// NewAggregator wires the full probe set against the given client factory.
func NewAggregator(clients ClientFactory) *Aggregator {
	return &Aggregator{
		probes: []Probe{
			NewComputeProbe(clients),
			NewVolumeProbe(clients),
			NewAddressProbe(clients),
			NewNATGatewayProbe(clients),
			NewCDNProbe(clients),
			NewKVTableProbe(clients),
			NewBucketProbe(clients),
			NewRelationalProbe(clients),
		},
	}
}

// Scan runs all probes, concurrently up to a small limit, and returns the
// merged result. Both totals are plain sums over the findings list: every
// finding's hourly figure counts toward the hourly total, including the
// back-computed ones, so the two totals always describe the same set of
// resources.
func (a *Aggregator) Scan(ctx context.Context, opts domain.ScanOptions) *domain.ScanResult {
	logger := zerolog.Ctx(ctx)

	regions := opts.Regions
	if len(regions) == 0 {
		regions = DefaultRegions
	}

	result := &domain.ScanResult{
		ScanID:    uuid.NewString(),
		Findings:  []domain.Finding{},
		StartedAt: time.Now().UTC(),
	}

	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)

	for _, probe := range a.probes {
		probe := probe
		g.Go(func() error {
			findings, err := probe.Probe(ctx, regions)
			if err != nil {
				logger.Warn().Err(err).Str("service", string(probe.Service())).
					Msg("probe failed, continuing scan")
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			result.Findings = append(result.Findings, findings...)
			for _, f := range findings {
				result.TotalEstimatedMonthlyCost += f.EstimatedMonthlyCost
				result.TotalEstimatedHourlyCost += f.EstimatedHourlyCost
			}
			return nil
		})
	}

	// Probes never propagate errors into the group.
	_ = g.Wait()

	result.FinishedAt = time.Now().UTC()
	return result
}
