package scan

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"github.com/stalkiq/dzera-sub000/pkg/services/pricing"
)

// BucketProbe reports object buckets with versioning enabled. Every
// overwrite and delete keeps a billed copy, so versioning is a
// configuration-driven incremental cost. "Suspended" buckets stop
// accruing new versions and are not reported.
type BucketProbe struct {
	clients ClientFactory
}

func NewBucketProbe(clients ClientFactory) *BucketProbe {
	return &BucketProbe{clients: clients}
}

func (p *BucketProbe) Service() domain.ResourceType {
	return domain.ResourceObjectBucket
}

// Probe ignores the region list: the bucket listing is account-wide.
func (p *BucketProbe) Probe(ctx context.Context, _ []string) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	client := p.clients.S3()
	resp, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to list buckets")
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	var findings []domain.Finding
	for _, bucket := range resp.Buckets {
		name := aws.ToString(bucket.Name)

		versioning, err := client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
			Bucket: bucket.Name,
		})
		if err != nil {
			logger.Debug().Err(err).Str("bucket", name).Msg("skipping bucket versioning check")
			continue
		}
		if versioning.Status != s3types.BucketVersioningStatusEnabled {
			continue
		}

		monthly := pricing.VersionedBucketMonthlyCost()

		findings = append(findings, domain.Finding{
			Service:      domain.ResourceObjectBucket,
			ResourceID:   name,
			ResourceName: name,
			Region:       domain.RegionGlobal,
			Severity:     domain.SeverityInfo,
			Title:        "S3 bucket with versioning enabled",
			Description: fmt.Sprintf(
				"Bucket %s keeps every object version; old versions accumulate storage charges.", name),
			Suggestion: "Add a lifecycle rule expiring noncurrent versions, " +
				"or suspend versioning if history is not needed.",
			EstimatedMonthlyCost: monthly,
			EstimatedHourlyCost:  pricing.HourlyFromMonthly(monthly),
			ActionURL:            fmt.Sprintf("https://s3.console.aws.amazon.com/s3/buckets/%s", name),
		})
	}

	return findings, nil
}
