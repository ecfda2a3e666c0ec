package scan

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// fixture is an in-memory stand-in for the AWS account being scanned. It
// implements ClientFactory and hands out region-bound fakes.
type fixture struct {
	reservations map[string][]ec2types.Reservation
	volumes      map[string][]ec2types.Volume
	addresses    map[string][]ec2types.Address
	natGateways  map[string][]ec2types.NatGateway
	ec2Err       map[string]error

	distributions  []cftypes.DistributionSummary
	distributeErr  error
	tables         map[string][]string
	replicas       map[string][]ddbtypes.ReplicaDescription
	describeErr    map[string]error
	listTablesErr  map[string]error
	buckets        []s3types.Bucket
	versioning     map[string]s3types.BucketVersioningStatus
	versioningErr  map[string]error
	listBucketsErr error
	dbInstances    map[string][]rdstypes.DBInstance
	rdsErr         map[string]error
	stsErr         error
}

func (f *fixture) EC2(region string) EC2API           { return &fakeEC2{f: f, region: region} }
func (f *fixture) CloudFront() CloudFrontAPI          { return &fakeCloudFront{f: f} }
func (f *fixture) DynamoDB(region string) DynamoDBAPI { return &fakeDynamoDB{f: f, region: region} }
func (f *fixture) S3() S3API                          { return &fakeS3{f: f} }
func (f *fixture) RDS(region string) RDSAPI           { return &fakeRDS{f: f, region: region} }
func (f *fixture) STS() STSAPI                        { return &fakeSTS{f: f} }

type fakeEC2 struct {
	f      *fixture
	region string
}

func (c *fakeEC2) DescribeInstances(_ context.Context, _ *ec2.DescribeInstancesInput,
	_ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if err := c.f.ec2Err[c.region]; err != nil {
		return nil, err
	}
	return &ec2.DescribeInstancesOutput{Reservations: c.f.reservations[c.region]}, nil
}

func (c *fakeEC2) DescribeVolumes(_ context.Context, _ *ec2.DescribeVolumesInput,
	_ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	if err := c.f.ec2Err[c.region]; err != nil {
		return nil, err
	}
	return &ec2.DescribeVolumesOutput{Volumes: c.f.volumes[c.region]}, nil
}

func (c *fakeEC2) DescribeAddresses(_ context.Context, _ *ec2.DescribeAddressesInput,
	_ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	if err := c.f.ec2Err[c.region]; err != nil {
		return nil, err
	}
	return &ec2.DescribeAddressesOutput{Addresses: c.f.addresses[c.region]}, nil
}

func (c *fakeEC2) DescribeNatGateways(_ context.Context, _ *ec2.DescribeNatGatewaysInput,
	_ ...func(*ec2.Options)) (*ec2.DescribeNatGatewaysOutput, error) {
	if err := c.f.ec2Err[c.region]; err != nil {
		return nil, err
	}
	return &ec2.DescribeNatGatewaysOutput{NatGateways: c.f.natGateways[c.region]}, nil
}

type fakeCloudFront struct {
	f *fixture
}

func (c *fakeCloudFront) ListDistributions(_ context.Context, _ *cloudfront.ListDistributionsInput,
	_ ...func(*cloudfront.Options)) (*cloudfront.ListDistributionsOutput, error) {
	if c.f.distributeErr != nil {
		return nil, c.f.distributeErr
	}
	return &cloudfront.ListDistributionsOutput{
		DistributionList: &cftypes.DistributionList{Items: c.f.distributions},
	}, nil
}

type fakeDynamoDB struct {
	f      *fixture
	region string
}

func (c *fakeDynamoDB) ListTables(_ context.Context, _ *dynamodb.ListTablesInput,
	_ ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	if err := c.f.listTablesErr[c.region]; err != nil {
		return nil, err
	}
	return &dynamodb.ListTablesOutput{TableNames: c.f.tables[c.region]}, nil
}

func (c *fakeDynamoDB) DescribeTable(_ context.Context, params *dynamodb.DescribeTableInput,
	_ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	name := *params.TableName
	if err := c.f.describeErr[name]; err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTableOutput{
		Table: &ddbtypes.TableDescription{Replicas: c.f.replicas[name]},
	}, nil
}

type fakeS3 struct {
	f *fixture
}

func (c *fakeS3) ListBuckets(_ context.Context, _ *s3.ListBucketsInput,
	_ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if c.f.listBucketsErr != nil {
		return nil, c.f.listBucketsErr
	}
	return &s3.ListBucketsOutput{Buckets: c.f.buckets}, nil
}

func (c *fakeS3) GetBucketVersioning(_ context.Context, params *s3.GetBucketVersioningInput,
	_ ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	name := *params.Bucket
	if err := c.f.versioningErr[name]; err != nil {
		return nil, err
	}
	return &s3.GetBucketVersioningOutput{Status: c.f.versioning[name]}, nil
}

type fakeRDS struct {
	f      *fixture
	region string
}

func (c *fakeRDS) DescribeDBInstances(_ context.Context, _ *rds.DescribeDBInstancesInput,
	_ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	if err := c.f.rdsErr[c.region]; err != nil {
		return nil, err
	}
	return &rds.DescribeDBInstancesOutput{DBInstances: c.f.dbInstances[c.region]}, nil
}

type fakeSTS struct {
	f *fixture
}

func (c *fakeSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput,
	_ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if c.f.stsErr != nil {
		return nil, c.f.stsErr
	}
	return &sts.GetCallerIdentityOutput{}, nil
}
