package scan

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"github.com/stalkiq/dzera-sub000/pkg/services/pricing"
)

// RelationalProbe reports RDS instances in "available" state, billed
// continuously while up.
type RelationalProbe struct {
	clients ClientFactory
}

func NewRelationalProbe(clients ClientFactory) *RelationalProbe {
	return &RelationalProbe{clients: clients}
}

func (p *RelationalProbe) Service() domain.ResourceType {
	return domain.ResourceRelationalInstance
}

func (p *RelationalProbe) Probe(ctx context.Context, regions []string) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, region := range regions {
		resp, err := p.clients.RDS(region).DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
		if err != nil {
			logger.Warn().Err(err).Str("region", region).Msg("failed to describe DB instances")
			continue
		}

		for _, instance := range resp.DBInstances {
			if aws.ToString(instance.DBInstanceStatus) != "available" {
				continue
			}

			id := aws.ToString(instance.DBInstanceIdentifier)
			class := aws.ToString(instance.DBInstanceClass)
			monthly := pricing.RelationalMonthlyCost(class)

			findings = append(findings, domain.Finding{
				Service:      domain.ResourceRelationalInstance,
				ResourceID:   id,
				ResourceName: id,
				Region:       region,
				Severity:     domain.SeverityCritical,
				Title:        fmt.Sprintf("Running RDS instance (%s)", class),
				Description: fmt.Sprintf(
					"Database %s (%s) in %s is available and billed continuously.",
					id, aws.ToString(instance.Engine), region),
				Suggestion: "Stop the database outside working hours, " +
					"or downsize the instance class if it is underutilized.",
				EstimatedMonthlyCost: monthly,
				EstimatedHourlyCost:  pricing.HourlyFromMonthly(monthly),
				ActionURL: fmt.Sprintf(
					"https://%s.console.aws.amazon.com/rds/home?region=%s#database:id=%s",
					region, region, id),
			})
		}
	}

	return findings, nil
}
