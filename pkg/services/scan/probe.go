// Package scan implements the resource probes and the aggregator that
// turns one set of AWS credentials into a severity-ranked list of cost
// findings.
package scan

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
)

// Probe is the per-service unit of work. It lists resources in the given
// regions and applies the service's filter, cost, and severity policy.
// A probe never aborts the scan: regional failures are logged and that
// region simply contributes nothing.
type Probe interface {
	Service() domain.ResourceType
	Probe(ctx context.Context, regions []string) ([]domain.Finding, error)
}

// nameTag returns the value of the "Name" tag, or empty if untagged.
func nameTag(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == "Name" {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}
