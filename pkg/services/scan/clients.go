package scan

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
)

// globalServiceRegion anchors clients of region-less services.
const globalServiceRegion = "us-east-1"

type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput,
		optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput,
		optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
	DescribeNatGateways(ctx context.Context, params *ec2.DescribeNatGatewaysInput,
		optFns ...func(*ec2.Options)) (*ec2.DescribeNatGatewaysOutput, error)
}

type CloudFrontAPI interface {
	ListDistributions(ctx context.Context, params *cloudfront.ListDistributionsInput,
		optFns ...func(*cloudfront.Options)) (*cloudfront.ListDistributionsOutput, error)
}

type DynamoDBAPI interface {
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput,
		optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput,
		optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
}

type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput,
		optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ClientFactory hands out provider clients scoped to a region. A factory is
// built per scan invocation from the submitted credentials and discarded
// with it; no client state outlives the scan.
type ClientFactory interface {
	EC2(region string) EC2API
	CloudFront() CloudFrontAPI
	DynamoDB(region string) DynamoDBAPI
	S3() S3API
	RDS(region string) RDSAPI
	STS() STSAPI
}

type awsClientFactory struct {
	base aws.Config
}

// NewClientFactory builds a ClientFactory backed by the AWS SDK using the
// supplied static credential pair.
func NewClientFactory(ctx context.Context, creds domain.Credentials) (ClientFactory, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(globalServiceRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &awsClientFactory{base: cfg}, nil
}

func (f *awsClientFactory) regional(region string) aws.Config {
	cfg := f.base.Copy()
	cfg.Region = region
	return cfg
}

func (f *awsClientFactory) EC2(region string) EC2API {
	return ec2.NewFromConfig(f.regional(region))
}

func (f *awsClientFactory) CloudFront() CloudFrontAPI {
	return cloudfront.NewFromConfig(f.base)
}

func (f *awsClientFactory) DynamoDB(region string) DynamoDBAPI {
	return dynamodb.NewFromConfig(f.regional(region))
}

func (f *awsClientFactory) S3() S3API {
	return s3.NewFromConfig(f.base)
}

func (f *awsClientFactory) RDS(region string) RDSAPI {
	return rds.NewFromConfig(f.regional(region))
}

func (f *awsClientFactory) STS() STSAPI {
	return sts.NewFromConfig(f.base)
}

// VerifyCredentials performs a cheap identity call to reject a bad
// credential pair before any probe runs. This is the only credential
// failure surfaced to the caller as a hard error.
func VerifyCredentials(ctx context.Context, api STSAPI) error {
	if _, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{}); err != nil {
		return fmt.Errorf("credential verification failed: %w", err)
	}
	return nil
}
