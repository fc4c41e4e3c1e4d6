package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/soundprediction/orgchart/pkg/config"
	"github.com/soundprediction/orgchart/pkg/driver"
)

// SSMAPI is the subset of the SSM client used here.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// NewSSMClient loads the default AWS configuration for region.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// neo4jDocument is the JSON stored in the credentials parameter.
type neo4jDocument struct {
	URI      string `json:"NEO4J_URI"`
	User     string `json:"NEO4J_USER"`
	Password string `json:"NEO4J_PASSWORD"`
	Database string `json:"NEO4J_DATABASE,omitempty"`
}

// SSMProvider reads secrets from SSM Parameter Store.
type SSMProvider struct {
	client SSMAPI
	cfg    config.SecretsConfig
	retry  RetryConfig
	logger *slog.Logger
}

// NewSSMProvider creates a provider over client.
func NewSSMProvider(client SSMAPI, cfg config.SecretsConfig, logger *slog.Logger) *SSMProvider {
	if logger == nil {
		logger = slog.Default()
	}
	retry := DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	return &SSMProvider{client: client, cfg: cfg, retry: retry, logger: logger}
}

// WithRetry replaces the retry configuration.
func (p *SSMProvider) WithRetry(cfg RetryConfig) *SSMProvider {
	p.retry = cfg
	return p
}

// Source returns SourceSSM.
func (p *SSMProvider) Source() Source {
	return SourceSSM
}

// Neo4jCredentials fetches and decodes the credentials parameter.
func (p *SSMProvider) Neo4jCredentials(ctx context.Context) (driver.Neo4jCredentials, error) {
	raw, err := p.parameter(ctx, p.cfg.Neo4jParameter)
	if err != nil {
		return driver.Neo4jCredentials{}, err
	}

	var doc neo4jDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return driver.Neo4jCredentials{}, &FatalError{Op: "decode " + p.cfg.Neo4jParameter, Err: err}
	}

	var missing []string
	if doc.URI == "" {
		missing = append(missing, "NEO4J_URI")
	}
	if doc.User == "" {
		missing = append(missing, "NEO4J_USER")
	}
	if doc.Password == "" {
		missing = append(missing, "NEO4J_PASSWORD")
	}
	if len(missing) > 0 {
		return driver.Neo4jCredentials{}, &FatalError{
			Op:  "decode " + p.cfg.Neo4jParameter,
			Err: fmt.Errorf("missing fields: %s", strings.Join(missing, ", ")),
		}
	}

	return driver.Neo4jCredentials{
		URI:      doc.URI,
		Username: doc.User,
		Password: doc.Password,
		Database: doc.Database,
	}, nil
}

// AdminKey fetches the admin key parameter.
func (p *SSMProvider) AdminKey(ctx context.Context) (string, error) {
	return p.parameter(ctx, p.cfg.AdminKeyParameter)
}

// StoreAdminKey writes key as a SecureString, replacing any existing value.
func (p *SSMProvider) StoreAdminKey(ctx context.Context, key string) error {
	_, err := Retry(ctx, p.retry, func(ctx context.Context) (struct{}, error) {
		_, err := p.client.PutParameter(ctx, &ssm.PutParameterInput{
			Name:      aws.String(p.cfg.AdminKeyParameter),
			Value:     aws.String(key),
			Type:      ssmtypes.ParameterTypeSecureString,
			Overwrite: aws.Bool(true),
		})
		if err != nil {
			return struct{}{}, classify("put "+p.cfg.AdminKeyParameter, err)
		}
		return struct{}{}, nil
	})
	if err == nil {
		p.logger.Info("Stored admin key", "parameter", p.cfg.AdminKeyParameter)
	}
	return err
}

func (p *SSMProvider) parameter(ctx context.Context, name string) (string, error) {
	attempt := 0
	return Retry(ctx, p.retry, func(ctx context.Context) (string, error) {
		attempt++
		out, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			err = classify("get "+name, err)
			if errors.Is(err, &TransientError{}) {
				p.logger.Warn("SSM read failed", "parameter", name, "attempt", attempt, "error", err)
			}
			return "", err
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return "", &FatalError{Op: "get " + name, Err: fmt.Errorf("parameter has no value")}
		}
		return *out.Parameter.Value, nil
	})
}

// classify separates SSM failures retrying cannot fix from the rest.
func classify(op string, err error) error {
	var notFound *ssmtypes.ParameterNotFound
	var invalidKey *ssmtypes.InvalidKeyId
	switch {
	case errors.As(err, &notFound), errors.As(err, &invalidKey):
		return &FatalError{Op: op, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &TransientError{Op: op, Err: err}
	}
}
