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

// NATGatewayProbe reports NAT gateways in "available" state, which are
// billed by the hour whether or not traffic flows through them.
type NATGatewayProbe struct {
	clients ClientFactory
}

func NewNATGatewayProbe(clients ClientFactory) *NATGatewayProbe {
	return &NATGatewayProbe{clients: clients}
}

func (p *NATGatewayProbe) Service() domain.ResourceType {
	return domain.ResourceNATGateway
}

func (p *NATGatewayProbe) Probe(ctx context.Context, regions []string) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, region := range regions {
		resp, err := p.clients.EC2(region).DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{})
		if err != nil {
			logger.Warn().Err(err).Str("region", region).Msg("failed to describe NAT gateways")
			continue
		}

		for _, gateway := range resp.NatGateways {
			if gateway.State != ec2types.NatGatewayStateAvailable {
				continue
			}

			id := aws.ToString(gateway.NatGatewayId)
			hourly := pricing.NATGatewayHourlyRate()
			monthly := hourly * pricing.HoursPerMonth

			findings = append(findings, domain.Finding{
				Service:      domain.ResourceNATGateway,
				ResourceID:   id,
				ResourceName: nameTag(gateway.Tags),
				Region:       region,
				Severity:     domain.SeverityCritical,
				Title:        "Active NAT gateway",
				Description: fmt.Sprintf(
					"NAT gateway %s in %s bills a fixed hourly rate plus data processing.", id, region),
				Suggestion: "Delete the gateway if the subnet no longer needs outbound " +
					"internet access, or consolidate gateways across subnets.",
				EstimatedMonthlyCost: monthly,
				EstimatedHourlyCost:  hourly,
				ActionURL: fmt.Sprintf(
					"https://%s.console.aws.amazon.com/vpcconsole/home?region=%s#NatGatewayDetails:natGatewayId=%s",
					region, region, id),
			})
		}
	}

	return findings, nil
}
