package api

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the corresponding config field is absent.
const (
	DefaultListenAddr = ":8000"
	DefaultLogLevel   = "info"
)

// ServerConfig configures the HTTP transport shell. All fields are
// optional; absent fields fall back to the defaults above (and to
// allow-all CORS).
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr optional.Option[string] `yaml:"listen_addr" json:"listen_addr" jsonschema:"title=Listen Address,description=Address the HTTP server binds to"`
	// AllowedOrigins is the list of CORS origins. "*" allows any origin.
	AllowedOrigins optional.Option[[]string] `yaml:"allowed_origins" json:"allowed_origins" jsonschema:"title=Allowed Origins,description=CORS origins allowed to call the API"`
	// LogLevel is one of the zap level names: debug, info, warn, error.
	LogLevel optional.Option[string] `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,description=Minimum level emitted by the logger"`
}

// UnmarshalYAML implements custom unmarshaling for ServerConfig.
func (c *ServerConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type config struct {
		ListenAddr     *string   `yaml:"listen_addr"`
		AllowedOrigins *[]string `yaml:"allowed_origins"`
		LogLevel       *string   `yaml:"log_level"`
	}

	var raw config
	if err := unmarshal(&raw); err != nil {
		return err
	}

	if raw.ListenAddr != nil {
		c.ListenAddr = optional.Some(*raw.ListenAddr)
	}

	if raw.AllowedOrigins != nil {
		c.AllowedOrigins = optional.Some(*raw.AllowedOrigins)
	}

	if raw.LogLevel != nil {
		c.LogLevel = optional.Some(*raw.LogLevel)
	}

	return nil
}

// EmptyConfig returns a ServerConfig with every field absent.
func EmptyConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:     optional.None[string](),
		AllowedOrigins: optional.None[[]string](),
		LogLevel:       optional.None[string](),
	}
}

// LoadConfig reads a ServerConfig from a YAML file.
func LoadConfig(path string) (ServerConfig, error) {
	config := EmptyConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// GenerateSchema generates a JSON schema for the ServerConfig.
func (c *ServerConfig) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[string]" {
				return &jsonschema.Schema{Type: "string"}
			}
			if strings.HasPrefix(t.String(), "optional.Option[[]string") {
				return &jsonschema.Schema{
					Type:  "array",
					Items: &jsonschema.Schema{Type: "string"},
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-api-server-config"
	schema.Description = "Configuration schema for the backtest API server"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates a JSON schema string for the ServerConfig.
func (c *ServerConfig) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
