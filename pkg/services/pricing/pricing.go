// Package pricing holds the static cost heuristics applied to scanned
// resources. The rates are deliberately coarse estimates, not a pricing
// API client; what matters is the tiering logic, not billing accuracy.
package pricing

import "strings"

// HoursPerMonth is the flat month length used to convert between hourly
// and monthly estimates.
const HoursPerMonth = 24 * 30

const (
	// unknownInstanceRate applies to instance classes not in the table.
	unknownInstanceRate = 0.10
	// missingInstanceRate applies when the provider reported no class at all.
	missingInstanceRate = 0.05

	volumeGBMonthlyRate       = 0.10
	floatingIPMonthlyRate     = 3.65
	natGatewayHourlyRate      = 0.045
	cdnDistributionMonthlyFee = 10.0
	replicatedTableMonthlyFee = 50.0
	versionedBucketMonthlyFee = 5.0

	rdsMicroMonthlyFee = 15.0
	rdsSmallMonthlyFee = 30.0
	rdsOtherMonthlyFee = 150.0
)

var instanceHourlyRates = map[string]float64{
	"t2.micro":   0.0116,
	"t2.small":   0.023,
	"t2.medium":  0.0464,
	"t3.micro":   0.0104,
	"t3.small":   0.0208,
	"t3.medium":  0.0416,
	"t3.large":   0.0832,
	"m5.large":   0.192,
	"m5.xlarge":  0.384,
	"m5.2xlarge": 0.768,
	"c5.large":   0.17,
	"c5.xlarge":  0.34,
	"r5.large":   0.252,
	"r5.xlarge":  0.504,
}

// InstanceHourlyRate returns the hourly rate for a compute instance class.
// An unknown class gets a flat fallback; an empty class (the provider
// reported no type) gets a lower default, so the two cases stay
// distinguishable in the estimates.
func InstanceHourlyRate(instanceClass string) float64 {
	if instanceClass == "" {
		return missingInstanceRate
	}
	if rate, ok := instanceHourlyRates[instanceClass]; ok {
		return rate
	}
	return unknownInstanceRate
}

// VolumeMonthlyCost returns the monthly cost of a block volume by size.
func VolumeMonthlyCost(sizeGB int32) float64 {
	if sizeGB < 0 {
		sizeGB = 0
	}
	return float64(sizeGB) * volumeGBMonthlyRate
}

// FloatingIPMonthlyCost returns the flat monthly cost of an unassociated
// floating IP, independent of its attributes.
func FloatingIPMonthlyCost() float64 {
	return floatingIPMonthlyRate
}

// NATGatewayHourlyRate returns the flat hourly rate of a NAT gateway.
func NATGatewayHourlyRate() float64 {
	return natGatewayHourlyRate
}

// CDNDistributionMonthlyCost returns the flat monthly estimate for an
// enabled CDN distribution. Real cost depends on traffic, which is not
// queried.
func CDNDistributionMonthlyCost() float64 {
	return cdnDistributionMonthlyFee
}

// ReplicatedTableMonthlyCost returns the flat monthly estimate for a
// key-value table with at least one cross-region replica, independent of
// the replica count magnitude.
func ReplicatedTableMonthlyCost() float64 {
	return replicatedTableMonthlyFee
}

// VersionedBucketMonthlyCost returns the flat monthly estimate for the
// incremental overhead of an object bucket with versioning enabled.
func VersionedBucketMonthlyCost() float64 {
	return versionedBucketMonthlyFee
}

// RelationalMonthlyCost returns a three-tier monthly estimate for a
// relational database instance, selected by substring match on the
// instance class name.
func RelationalMonthlyCost(instanceClass string) float64 {
	switch {
	case strings.Contains(instanceClass, "micro"):
		return rdsMicroMonthlyFee
	case strings.Contains(instanceClass, "small"):
		return rdsSmallMonthlyFee
	default:
		return rdsOtherMonthlyFee
	}
}

// HourlyFromMonthly back-computes an hourly figure for resources that are
// billed only monthly.
func HourlyFromMonthly(monthly float64) float64 {
	return monthly / HoursPerMonth
}
