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

// VolumeProbe reports block volumes that are billed but attached to
// nothing. A volume in "available" state with a non-empty attachment list
// is still detaching and is not reported.
type VolumeProbe struct {
	clients ClientFactory
}

func NewVolumeProbe(clients ClientFactory) *VolumeProbe {
	return &VolumeProbe{clients: clients}
}

func (p *VolumeProbe) Service() domain.ResourceType {
	return domain.ResourceBlockVolume
}

func (p *VolumeProbe) Probe(ctx context.Context, regions []string) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	var findings []domain.Finding
	for _, region := range regions {
		resp, err := p.clients.EC2(region).DescribeVolumes(ctx, &ec2.DescribeVolumesInput{})
		if err != nil {
			logger.Warn().Err(err).Str("region", region).Msg("failed to describe volumes")
			continue
		}

		for _, volume := range resp.Volumes {
			if volume.State != ec2types.VolumeStateAvailable || len(volume.Attachments) > 0 {
				continue
			}

			id := aws.ToString(volume.VolumeId)
			sizeGB := aws.ToInt32(volume.Size)
			monthly := pricing.VolumeMonthlyCost(sizeGB)

			findings = append(findings, domain.Finding{
				Service:      domain.ResourceBlockVolume,
				ResourceID:   id,
				ResourceName: nameTag(volume.Tags),
				Region:       region,
				Severity:     domain.SeverityWarning,
				Title:        fmt.Sprintf("Unattached EBS volume (%d GB)", sizeGB),
				Description: fmt.Sprintf(
					"Volume %s in %s is not attached to any instance but still accrues storage charges.",
					id, region),
				Suggestion: "Snapshot the volume if its data matters, then delete it.",
				EstimatedMonthlyCost: monthly,
				EstimatedHourlyCost:  pricing.HourlyFromMonthly(monthly),
				ActionURL: fmt.Sprintf(
					"https://%s.console.aws.amazon.com/ec2/home?region=%s#VolumeDetails:volumeId=%s",
					region, region, id),
			})
		}
	}

	return findings, nil
}
