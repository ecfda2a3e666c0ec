package domain

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

type ResourceType string

const (
	ResourceComputeInstance    ResourceType = "compute-instance"
	ResourceBlockVolume        ResourceType = "block-volume"
	ResourceFloatingIP         ResourceType = "floating-ip"
	ResourceNATGateway         ResourceType = "nat-gateway"
	ResourceCDNDistribution    ResourceType = "cdn-distribution"
	ResourceKVTable            ResourceType = "kv-table"
	ResourceObjectBucket       ResourceType = "object-bucket"
	ResourceRelationalInstance ResourceType = "relational-instance"
)

// RegionGlobal is used for services that are not scoped to a region.
const RegionGlobal = "global"

// Finding is a single cost-relevant resource detected by a probe.
type Finding struct {
	Service              ResourceType
	ResourceID           string
	ResourceName         string
	Region               string
	Severity             Severity
	Title                string
	Description          string
	Suggestion           string
	EstimatedMonthlyCost float64
	EstimatedHourlyCost  float64
	ActionURL            string
}

// ScanResult aggregates the findings of a single scan invocation. Both
// totals are sums over Findings, never computed independently.
type ScanResult struct {
	ScanID                    string
	Findings                  []Finding
	TotalEstimatedMonthlyCost float64
	TotalEstimatedHourlyCost  float64
	StartedAt                 time.Time
	FinishedAt                time.Time
}

// Credentials is an AWS access key pair supplied per scan. It is never
// persisted and discarded with the scan.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

type ScanOptions struct {
	Regions []string
}
