package scan

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATGatewayProbe_ReportsAvailableGateway(t *testing.T) {
	f := &fixture{
		natGateways: map[string][]ec2types.NatGateway{
			"us-east-1": {{
				NatGatewayId: aws.String("nat-0abc"),
				State:        ec2types.NatGatewayStateAvailable,
			}},
		},
	}

	findings, err := NewNATGatewayProbe(f).Probe(testContext(), []string{"us-east-1"})
	require.NoError(t, err)
	require.Len(t, findings, 1)

	finding := findings[0]
	assert.Equal(t, domain.SeverityCritical, finding.Severity)
	assert.InDelta(t, 0.045, finding.EstimatedHourlyCost, 1e-9)
	assert.InDelta(t, 0.045*720, finding.EstimatedMonthlyCost, 1e-9)
}

func TestNATGatewayProbe_IgnoresOtherStates(t *testing.T) {
	f := &fixture{
		natGateways: map[string][]ec2types.NatGateway{
			"us-east-1": {
				{NatGatewayId: aws.String("nat-deleted"), State: ec2types.NatGatewayStateDeleted},
				{NatGatewayId: aws.String("nat-pending"), State: ec2types.NatGatewayStatePending},
			},
		},
	}

	findings, err := NewNATGatewayProbe(f).Probe(testContext(), []string{"us-east-1"})
	require.NoError(t, err)
	assert.Empty(t, findings)
}
