package scan

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"github.com/stalkiq/dzera-sub000/pkg/services/pricing"
)

// KVTableProbe reports DynamoDB tables replicated to other regions.
// Replication multiplies storage and write cost for every replica, so any
// table with a non-empty replica list is surfaced.
type KVTableProbe struct {
	clients ClientFactory
}

func NewKVTableProbe(clients ClientFactory) *KVTableProbe {
	return &KVTableProbe{clients: clients}
}

func (p *KVTableProbe) Service() domain.ResourceType {
	return domain.ResourceKVTable
}

func (p *KVTableProbe) Probe(ctx context.Context, regions []string) ([]domain.Finding, error) {
	logger := zerolog.Ctx(ctx)

	// A global table is listed by every region that hosts a replica, so
	// reported names are tracked to keep one finding per table.
	reported := make(map[string]bool)

	var findings []domain.Finding
	for _, region := range regions {
		client := p.clients.DynamoDB(region)

		var tableNames []string
		var startTable *string
		for {
			resp, err := client.ListTables(ctx, &dynamodb.ListTablesInput{
				ExclusiveStartTableName: startTable,
			})
			if err != nil {
				logger.Warn().Err(err).Str("region", region).Msg("failed to list tables")
				tableNames = nil
				break
			}
			tableNames = append(tableNames, resp.TableNames...)
			if resp.LastEvaluatedTableName == nil {
				break
			}
			startTable = resp.LastEvaluatedTableName
		}

		for _, name := range tableNames {
			if reported[name] {
				continue
			}
			// The per-table describe is independently fallible; a table we
			// cannot describe is skipped without failing the enumeration.
			desc, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
				TableName: aws.String(name),
			})
			if err != nil {
				logger.Debug().Err(err).Str("region", region).Str("table", name).
					Msg("skipping table describe")
				continue
			}
			if desc.Table == nil || len(desc.Table.Replicas) == 0 {
				continue
			}

			reported[name] = true
			monthly := pricing.ReplicatedTableMonthlyCost()

			findings = append(findings, domain.Finding{
				Service:      domain.ResourceKVTable,
				ResourceID:   name,
				ResourceName: name,
				Region:       region,
				Severity:     domain.SeverityWarning,
				Title:        "Globally replicated DynamoDB table",
				Description: fmt.Sprintf(
					"Table %s in %s replicates to %d other region(s); every replica is billed separately.",
					name, region, len(desc.Table.Replicas)),
				Suggestion:           "Remove replicas in regions that no longer serve reads.",
				EstimatedMonthlyCost: monthly,
				EstimatedHourlyCost:  pricing.HourlyFromMonthly(monthly),
				ActionURL: fmt.Sprintf(
					"https://%s.console.aws.amazon.com/dynamodbv2/home?region=%s#table?name=%s",
					region, region, name),
			})
		}
	}

	return findings, nil
}
