package uvstorage

import (
	"testing"

	"github.com/VishNikhil12/Us-Visa-Approval-Prediction/pkg/uvconfig"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCredentials = Credentials{
	AccessKeyID:     "AKIA_TEST",
	SecretAccessKey: "secret123",
}

func TestSessionFactoryNewClient(t *testing.T) {
	client, err := SessionFactory{}.NewClient(testCredentials, "eu-west-1")
	require.NoError(t, err)

	svc, ok := client.(*s3.S3)
	require.True(t, ok)
	assert.Equal(t, "eu-west-1", aws.StringValue(svc.Config.Region))

	creds, err := svc.Config.Credentials.Get()
	require.NoError(t, err)
	assert.Equal(t, "AKIA_TEST", creds.AccessKeyID)
	assert.Equal(t, "secret123", creds.SecretAccessKey)
}

func TestSessionFactoryNewResource(t *testing.T) {
	resource, err := SessionFactory{}.NewResource(testCredentials, "ap-south-1")
	require.NoError(t, err)

	assert.Equal(t, "ap-south-1", resource.Region())
	assert.Equal(t, "ap-south-1", aws.StringValue(resource.Client().(*s3.S3).Config.Region))
	assert.Equal(t, "models", resource.Bucket("models").Name())
}

func TestSessionFactoryRejectsUnknownRegion(t *testing.T) {
	_, err := SessionFactory{}.NewClient(testCredentials, "not-a-region")
	require.Error(t, err)
	assert.Equal(t, "unknown region 'not-a-region'", err.Error())

	_, err = SessionFactory{}.NewResource(testCredentials, "")
	require.Error(t, err)
}

func TestSessionFactoryRejectsEmptyCredentials(t *testing.T) {
	_, err := SessionFactory{}.NewClient(Credentials{AccessKeyID: "AKIA_TEST"}, "us-east-1")
	require.Error(t, err)
}

func TestSessionFactoryCustomEndpoint(t *testing.T) {
	factory := FactoryFromConfig(*uvconfig.ExampleConfig())
	assert.Equal(t, "http://localhost:9000", factory.Endpoint)
	assert.True(t, factory.ForcePathStyle)

	// made-up region names are fine when not talking to AWS
	client, err := SessionFactory{
		Endpoint:       "http://localhost:9000",
		ForcePathStyle: true,
	}.NewClient(testCredentials, "minio")
	require.NoError(t, err)

	svc := client.(*s3.S3)
	assert.Equal(t, "minio", aws.StringValue(svc.Config.Region))
	assert.True(t, aws.BoolValue(svc.Config.S3ForcePathStyle))
}

func TestProviderWithSessionFactory(t *testing.T) {
	setCredentials(t)

	provider := NewProvider(SessionFactory{}, "", nil)

	client, resource, err := provider.Acquire("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, aws.StringValue(client.(*s3.S3).Config.Region))
	assert.Equal(t, DefaultRegion, resource.Region())

	// SDK rejects the region => wrapped init error, nothing cached
	_, _, err = NewProvider(SessionFactory{}, "", nil).Acquire("atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionInit)
}
