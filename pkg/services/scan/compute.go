package scan

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"github.com/stalkiq/dzera-sub000/pkg/services/pricing"
)

// ComputeProbe reports running compute instances, the largest continuous
// hourly spend in most accounts.
type ComputeProbe struct {
	clients ClientFactory
}

func NewComputeProbe(clients ClientFactory) *ComputeProbe {
	return &ComputeProbe{clients: clients}
}

func (p *ComputeProbe) Service() domain.ResourceType {
	return domain.ResourceComputeInstance
}

func (p *ComputeProbe) Probe(ctx context.Context, regions []string) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, region := range regions {
		resp, err := p.clients.EC2(region).DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
		if err != nil {
			logger.Warn().Err(err).Str("region", region).Msg("failed to describe instances")
			continue
		}

		for _, reservation := range resp.Reservations {
			for _, instance := range reservation.Instances {
				if instance.State == nil || instance.State.Name != ec2types.InstanceStateNameRunning {
					continue
				}

				id := aws.ToString(instance.InstanceId)
				class := string(instance.InstanceType)
				hourly := pricing.InstanceHourlyRate(class)
				monthly := hourly * pricing.HoursPerMonth

				findings = append(findings, domain.Finding{
					Service:      domain.ResourceComputeInstance,
					ResourceID:   id,
					ResourceName: nameTag(instance.Tags),
					Region:       region,
					Severity:     domain.SeverityCritical,
					Title:        fmt.Sprintf("Running EC2 instance (%s)", class),
					Description: fmt.Sprintf(
						"Instance %s in %s is running and billed every hour.", id, region),
					Suggestion: "Stop the instance when it is not needed, " +
						"or downsize it to a cheaper instance class.",
					EstimatedMonthlyCost: monthly,
					EstimatedHourlyCost:  hourly,
					ActionURL: fmt.Sprintf(
						"https://%s.console.aws.amazon.com/ec2/home?region=%s#InstanceDetails:instanceId=%s",
						region, region, id),
				})
			}
		}
	}

	return findings, nil
}
