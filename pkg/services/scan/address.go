package scan

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"github.com/stalkiq/dzera-sub000/pkg/services/pricing"
)

// AddressProbe reports elastic IP addresses associated with neither an
// instance nor a network interface.
type AddressProbe struct {
	clients ClientFactory
}

func NewAddressProbe(clients ClientFactory) *AddressProbe {
	return &AddressProbe{clients: clients}
}

func (p *AddressProbe) Service() domain.ResourceType {
	return domain.ResourceFloatingIP
}

func (p *AddressProbe) Probe(ctx context.Context, regions []string) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, region := range regions {
		resp, err := p.clients.EC2(region).DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
		if err != nil {
			logger.Warn().Err(err).Str("region", region).Msg("failed to describe addresses")
			continue
		}

		for _, addr := range resp.Addresses {
			if aws.ToString(addr.InstanceId) != "" || aws.ToString(addr.NetworkInterfaceId) != "" {
				continue
			}

			id := aws.ToString(addr.AllocationId)
			publicIP := aws.ToString(addr.PublicIp)
			if id == "" {
				id = publicIP
			}
			monthly := pricing.FloatingIPMonthlyCost()

			findings = append(findings, domain.Finding{
				Service:      domain.ResourceFloatingIP,
				ResourceID:   id,
				ResourceName: publicIP,
				Region:       region,
				Severity:     domain.SeverityWarning,
				Title:        "Unassociated Elastic IP",
				Description: fmt.Sprintf(
					"Address %s in %s is allocated but attached to nothing, which incurs an idle charge.",
					publicIP, region),
				Suggestion:           "Release the address if it is no longer reserved for anything.",
				EstimatedMonthlyCost: monthly,
				EstimatedHourlyCost:  pricing.HourlyFromMonthly(monthly),
				ActionURL: fmt.Sprintf(
					"https://%s.console.aws.amazon.com/ec2/home?region=%s#ElasticIpDetails:AllocationId=%s",
					region, region, id),
			})
		}
	}

	return findings, nil
}
