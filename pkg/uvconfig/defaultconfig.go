package uvconfig

import (
	"github.com/aws/aws-sdk-go/aws/endpoints"
)

func DefaultConfig() *Config {
	return &Config{
		Region: endpoints.UsEast1RegionID,
	}
}

// ExampleConfig shows every option, pointed at a local MinIO
func ExampleConfig() *Config {
	return &Config{
		Region:         endpoints.UsEast1RegionID,
		Endpoint:       "http://localhost:9000",
		ForcePathStyle: true,
	}
}
