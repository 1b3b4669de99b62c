package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	errLoadAWSConfig           = "failed to load AWS config: %w"
	errGetSecretFromAWSSecrets = "failed to get secret from AWS Secrets Manager: %w"
	errParseSecretJSON         = "failed to parse secret JSON: %w"
	errParseSecretBinary       = "failed to parse secret binary: %w"
)

var errNoSecretDataFound = errors.New("no secret data found in AWS Secrets Manager")

// SecretsOverlay represents the structure of secrets stored in AWS Secrets Manager
type SecretsOverlay struct {
	ProviderAPIKey string `json:"provider_api_key"`
	RedisPassword  string `json:"redis_password"`
}

// SecretGetter is the subset of the Secrets Manager client used here
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// newSecretsClient builds a Secrets Manager client for the region
func newSecretsClient(ctx context.Context, region string) (SecretGetter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf(errLoadAWSConfig, err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

// fetchSecrets retrieves and parses a secret
func fetchSecrets(ctx context.Context, client SecretGetter, secretName string) (*SecretsOverlay, error) {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf(errGetSecretFromAWSSecrets, err)
	}
	return parseSecretData(result)
}

// parseSecretData parses secret data from AWS response
func parseSecretData(result *secretsmanager.GetSecretValueOutput) (*SecretsOverlay, error) {
	var secrets SecretsOverlay
	switch {
	case result.SecretString != nil:
		if err := json.Unmarshal([]byte(*result.SecretString), &secrets); err != nil {
			return nil, fmt.Errorf(errParseSecretJSON, err)
		}
	case result.SecretBinary != nil:
		if err := json.Unmarshal(result.SecretBinary, &secrets); err != nil {
			return nil, fmt.Errorf(errParseSecretBinary, err)
		}
	default:
		return nil, errNoSecretDataFound
	}
	return &secrets, nil
}

// overlaySecretsOnConfig applies secrets to configuration
func overlaySecretsOnConfig(cfg *Config, secrets *SecretsOverlay) {
	if secrets.ProviderAPIKey != "" {
		cfg.Provider.APIKey = secrets.ProviderAPIKey
	}
	if secrets.RedisPassword != "" {
		cfg.Redis.Password = secrets.RedisPassword
	}
}

// LoadSecretsFromAWS retrieves secrets from AWS Secrets Manager and overlays them onto the configuration.
// It is a no-op when the overlay is disabled.
func LoadSecretsFromAWS(ctx context.Context, cfg *Config) error {
	if !cfg.Secrets.Enabled {
		return nil
	}

	client, err := newSecretsClient(ctx, cfg.Secrets.Region)
	if err != nil {
		return err
	}
	return ApplySecrets(ctx, cfg, client)
}

// ApplySecrets overlays the configured secret using the given client
func ApplySecrets(ctx context.Context, cfg *Config, client SecretGetter) error {
	secrets, err := fetchSecrets(ctx, client, cfg.Secrets.SecretName)
	if err != nil {
		return err
	}
	overlaySecretsOnConfig(cfg, secrets)
	return nil
}
