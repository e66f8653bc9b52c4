// Package secrets loads the application's secret bundle from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// DatabasePasswordKey is the bundle key holding the database password.
const DatabasePasswordKey = "DB_PASSWORD"

var (
	// ErrSecretsUnavailable indicates the secret could not be fetched or decoded.
	ErrSecretsUnavailable = errors.New("secrets unavailable")
	// ErrSecretKeyMissing indicates the bundle does not contain a required key.
	ErrSecretKeyMissing = errors.New("secret key missing")
)

// AWS constructors are package variables so tests can replace them.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	newSecretsClient     = func(cfg aws.Config) secretAPI {
		return secretsmanager.NewFromConfig(cfg)
	}
)

type secretAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Bundle is a flat key/value view of a JSON secret.
type Bundle map[string]string

// Require returns the value stored under key.
func (b Bundle) Require(key string) (string, error) {
	v, ok := b[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretKeyMissing, key)
	}
	return v, nil
}

// Manager reads named secrets.
type Manager struct {
	client secretAPI
}

// New builds a Manager using the default AWS credential chain.
func New(ctx context.Context, region string) (*Manager, error) {
	cfg, err := loadDefaultAWSConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrSecretsUnavailable, err)
	}
	return &Manager{client: newSecretsClient(cfg)}, nil
}

// Load fetches the secret and decodes its SecretString as a JSON object.
// Non-string scalar values are converted to their text form.
func (m *Manager) Load(ctx context.Context, name string) (Bundle, error) {
	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrSecretsUnavailable, name, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("%w: %s has no string value", ErrSecretsUnavailable, name)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(*out.SecretString), &raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrSecretsUnavailable, name, err)
	}

	bundle := make(Bundle, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			bundle[k] = val
		case float64:
			bundle[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			bundle[k] = strconv.FormatBool(val)
		case nil:
			// skipped; Require reports it as missing
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("%w: encode %s.%s: %v", ErrSecretsUnavailable, name, k, err)
			}
			bundle[k] = string(b)
		}
	}
	return bundle, nil
}

// DatabasePassword loads the named secret and returns its DB_PASSWORD entry.
func (m *Manager) DatabasePassword(ctx context.Context, name string) (string, error) {
	bundle, err := m.Load(ctx, name)
	if err != nil {
		return "", err
	}
	return bundle.Require(DatabasePasswordKey)
}
