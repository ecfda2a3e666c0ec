package scan

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"github.com/stalkiq/dzera-sub000/pkg/services/pricing"
)

// CDNProbe reports enabled CloudFront distributions. The estimate is a
// flat approximation; actual spend depends on traffic, which is not
// queried.
type CDNProbe struct {
	clients ClientFactory
}

func NewCDNProbe(clients ClientFactory) *CDNProbe {
	return &CDNProbe{clients: clients}
}

func (p *CDNProbe) Service() domain.ResourceType {
	return domain.ResourceCDNDistribution
}

// Probe ignores the region list: distributions are a global service.
func (p *CDNProbe) Probe(ctx context.Context, _ []string) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := p.clients.CloudFront().ListDistributions(ctx, &cloudfront.ListDistributionsInput{})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to list distributions")
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}

	var findings []domain.Finding
	if resp.DistributionList == nil {
		return findings, nil
	}

	for _, dist := range resp.DistributionList.Items {
		if !aws.ToBool(dist.Enabled) {
			continue
		}

		id := aws.ToString(dist.Id)

		// Display name prefers the first alias, then the generated
		// domain name, then the opaque distribution ID.
		name := id
		if dist.Aliases != nil && len(dist.Aliases.Items) > 0 {
			name = dist.Aliases.Items[0]
		} else if aws.ToString(dist.DomainName) != "" {
			name = aws.ToString(dist.DomainName)
		}

		monthly := pricing.CDNDistributionMonthlyCost()

		findings = append(findings, domain.Finding{
			Service:      domain.ResourceCDNDistribution,
			ResourceID:   id,
			ResourceName: name,
			Region:       domain.RegionGlobal,
			Severity:     domain.SeverityWarning,
			Title:        "Enabled CloudFront distribution",
			Description: fmt.Sprintf(
				"Distribution %s is enabled and serving; cost grows with traffic.", name),
			Suggestion:           "Disable the distribution if it no longer fronts live content.",
			EstimatedMonthlyCost: monthly,
			EstimatedHourlyCost:  pricing.HourlyFromMonthly(monthly),
			ActionURL: fmt.Sprintf(
				"https://console.aws.amazon.com/cloudfront/v4/home#/distributions/%s", id),
		})
	}

	return findings, nil
}
