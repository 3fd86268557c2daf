// Lazily constructed, memoized S3 connection built from credentials in the environment
package uvstorage

import (
	"errors"
	"io"
	"log"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go/aws/endpoints"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/function61/gokit/logex"
)

const (
	AccessKeyIDEnvKey     = "AWS_ACCESS_KEY_ID"
	SecretAccessKeyEnvKey = "AWS_SECRET_ACCESS_KEY"

	DefaultRegion = endpoints.UsEast1RegionID
)

// names of the environment variables the credentials are read from
type EnvKeys struct {
	AccessKeyID     string
	SecretAccessKey string
}

var DefaultEnvKeys = EnvKeys{
	AccessKeyID:     AccessKeyIDEnvKey,
	SecretAccessKey: SecretAccessKeyEnvKey,
}

// Provider hands out one (client, resource) pair for its whole lifetime. The
// pair is built on the first successful Acquire() and never rebuilt. Failed
// attempts leave no trace, so the next call starts from scratch.
type Provider struct {
	factory       Factory
	defaultRegion string
	envKeys       EnvKeys
	logl          *logex.Leveled

	mu       sync.Mutex // guards check-and-construct
	client   s3iface.S3API
	resource *Resource
	region   string // region the cached handles were built with
}

func NewProvider(factory Factory, defaultRegion string, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if defaultRegion == "" {
		defaultRegion = DefaultRegion
	}

	return &Provider{
		factory:       factory,
		defaultRegion: defaultRegion,
		envKeys:       DefaultEnvKeys,
		logl:          logex.Levels(logex.Prefix("uvstorage", logger)),
	}
}

// must be called before the first Acquire(). Once initialized, the credentials
// are never read again so the keys have no effect.
func (p *Provider) UseEnvKeys(keys EnvKeys) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.envKeys = keys

	return p
}

// Acquire returns the cached handles, constructing them first if needed. Empty
// region means the provider's default region.
//
// Once initialized, region is ignored: a later call asking for another region
// gets the handles built for the first one.
func (p *Provider) Acquire(region string) (s3iface.S3API, *Resource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil && p.resource != nil {
		if region != "" && region != p.region {
			p.logl.Info.Printf("requested region %s but already connected to %s; reusing", region, p.region)
		}

		return p.client, p.resource, nil
	}

	if region == "" {
		region = p.defaultRegion
	}

	creds, err := p.credentialsFromEnv()
	if err != nil {
		return nil, nil, err
	}

	p.logl.Debug.Printf("constructing handles for %s in %s", creds.AccessKeyID, region)

	client, err := p.factory.NewClient(creds, region)
	if err == nil && client == nil {
		err = errors.New("factory returned no client")
	}
	if err != nil {
		return nil, nil, &ConnectionInitError{Region: region, Cause: err}
	}

	resource, err := p.factory.NewResource(creds, region)
	if err == nil && resource == nil {
		err = errors.New("factory returned no resource")
	}
	if err != nil {
		return nil, nil, &ConnectionInitError{Region: region, Cause: err}
	}

	p.client = client
	p.resource = resource
	p.region = region

	p.logl.Info.Printf("connected (region %s)", region)

	return client, resource, nil
}

// Region returns the region of the cached handles, or "" when not yet initialized
func (p *Provider) Region() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.region
}

func (p *Provider) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.client != nil && p.resource != nil
}

// access key is checked first
func (p *Provider) credentialsFromEnv() (Credentials, error) {
	accessKeyID := os.Getenv(p.envKeys.AccessKeyID)
	if accessKeyID == "" {
		return Credentials{}, &EnvVarMissingError{Name: p.envKeys.AccessKeyID}
	}

	secretAccessKey := os.Getenv(p.envKeys.SecretAccessKey)
	if secretAccessKey == "" {
		return Credentials{}, &EnvVarMissingError{Name: p.envKeys.SecretAccessKey}
	}

	return Credentials{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
	}, nil
}

var (
	processProvider   *Provider
	processProviderMu sync.Mutex
)

// Default returns the process-wide provider. Unless replaced with SetDefault(),
// it uses the AWS SDK with DefaultRegion and logs nowhere.
func Default() *Provider {
	processProviderMu.Lock()
	defer processProviderMu.Unlock()

	if processProvider == nil {
		processProvider = NewProvider(SessionFactory{}, DefaultRegion, nil)
	}

	return processProvider
}

// SetDefault replaces the process-wide provider. Meant for program startup.
func SetDefault(p *Provider) {
	processProviderMu.Lock()
	defer processProviderMu.Unlock()

	processProvider = p
}

// Acquire acquires from the process-wide provider
func Acquire(region string) (s3iface.S3API, *Resource, error) {
	return Default().Acquire(region)
}
