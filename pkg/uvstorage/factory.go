package uvstorage

import (
	"fmt"

	"github.com/VishNikhil12/Us-Visa-Approval-Prediction/pkg/uvconfig"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/endpoints"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// keeps the secret out of log lines and error messages
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessKeyID: %s, SecretAccessKey: <redacted>}", c.AccessKeyID)
}

// Factory constructs the storage handles. Implementations must not cache;
// memoization is the Provider's job.
type Factory interface {
	NewClient(creds Credentials, region string) (s3iface.S3API, error)
	NewResource(creds Credentials, region string) (*Resource, error)
}

// SessionFactory builds handles with the AWS SDK. Construction is local, no
// requests are made until the handles are used.
type SessionFactory struct {
	// for S3-compatible services (MinIO, LocalStack). empty = AWS
	Endpoint       string
	ForcePathStyle bool
}

func FactoryFromConfig(conf uvconfig.Config) SessionFactory {
	return SessionFactory{
		Endpoint:       conf.Endpoint,
		ForcePathStyle: conf.ForcePathStyle,
	}
}

func (f SessionFactory) NewClient(creds Credentials, region string) (s3iface.S3API, error) {
	awsSession, err := f.session(creds, region)
	if err != nil {
		return nil, err
	}

	return s3.New(awsSession), nil
}

// the resource gets its own session and client, same as the client handle
// would if constructed in isolation
func (f SessionFactory) NewResource(creds Credentials, region string) (*Resource, error) {
	client, err := f.NewClient(creds, region)
	if err != nil {
		return nil, err
	}

	return newResource(client, region), nil
}

func (f SessionFactory) session(creds Credentials, region string) (*session.Session, error) {
	// custom endpoints commonly use made-up region names
	if f.Endpoint == "" {
		if _, known := endpoints.PartitionForRegion(endpoints.DefaultPartitions(), region); !known {
			return nil, fmt.Errorf("unknown region '%s'", region)
		}
	}

	staticCredentials := credentials.NewStaticCredentials(
		creds.AccessKeyID,
		creds.SecretAccessKey,
		"")

	if _, err := staticCredentials.Get(); err != nil {
		return nil, err
	}

	awsConf := aws.NewConfig().WithCredentials(staticCredentials).WithRegion(region)

	if f.Endpoint != "" {
		awsConf = awsConf.WithEndpoint(f.Endpoint)
	}

	if f.ForcePathStyle {
		awsConf = awsConf.WithS3ForcePathStyle(true)
	}

	return session.NewSession(awsConf)
}
