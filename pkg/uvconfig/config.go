// Configuration for everything except the credentials, which only ever come from ENV
package uvconfig

import (
	"bytes"
	"os"

	"github.com/function61/gokit/envvar"
	"github.com/function61/gokit/jsonfile"
)

const (
	confEnvKey   = "USVISA_CONF"
	confFilename = "config.json"
)

type Config struct {
	Region         string `json:"region"`
	Endpoint       string `json:"endpoint,omitempty"`
	ForcePathStyle bool   `json:"force_path_style,omitempty"`
}

// ReadFromEnvOrFile reads base64 encoded JSON from $USVISA_CONF, then
// config.json. If neither exists, DefaultConfig() is returned.
func ReadFromEnvOrFile() (*Config, error) {
	return readFrom(confEnvKey, confFilename)
}

func readFrom(envKey string, filename string) (*Config, error) {
	conf := &Config{}

	if os.Getenv(envKey) != "" {
		confFromEnv, err := envvar.RequiredFromBase64Encoded(envKey)
		if err != nil {
			return nil, err
		}

		return conf, jsonfile.Unmarshal(bytes.NewBuffer(confFromEnv), conf, true)
	}

	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return nil, err
	}

	return conf, jsonfile.Read(filename, conf, true)
}
