package config

import (
	"fmt"
	"os"
	"time"
)

// Store backends selectable with CONSENT_STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	StoreBackend   string
	TableName      string
	AWSRegion      string
	DynamoEndpoint string
	RequestTimeout time.Duration
}

// Defaults
var (
	DefaultAddr           = ":8080"
	DefaultTableName      = "ServiceUserConsent"
	DefaultAWSRegion      = "us-west-2"
	DefaultRequestTimeout = 30 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) Server {
	cfg := Server{
		Addr:           orDefault(getenv("CONSENT_API_ADDR"), DefaultAddr),
		Environment:    orDefault(getenv("ENVIRONMENT"), "dev"),
		LogLevel:       orDefault(getenv("LOG_LEVEL"), "info"),
		StoreBackend:   orDefault(getenv("CONSENT_STORE_BACKEND"), BackendMemory),
		TableName:      orDefault(getenv("CONSENT_TABLE_NAME"), DefaultTableName),
		AWSRegion:      orDefault(getenv("AWS_REGION"), DefaultAWSRegion),
		DynamoEndpoint: getenv("DYNAMODB_ENDPOINT"),
		RequestTimeout: DefaultRequestTimeout,
	}
	if raw := getenv("REQUEST_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	return cfg
}

// Validate rejects configurations the server cannot start with.
func (c Server) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.TableName == "" {
			return fmt.Errorf("CONSENT_TABLE_NAME is required for the %s backend", BackendDynamoDB)
		}
		if c.AWSRegion == "" {
			return fmt.Errorf("AWS_REGION is required for the %s backend", BackendDynamoDB)
		}
	default:
		return fmt.Errorf("unknown CONSENT_STORE_BACKEND %q, expected %s or %s", c.StoreBackend, BackendMemory, BackendDynamoDB)
	}
	if c.Addr == "" {
		return fmt.Errorf("CONSENT_API_ADDR must not be empty")
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
