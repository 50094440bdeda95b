package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	"github.com/vango-dev/approute/internal/config"
	"github.com/vango-dev/approute/pkg/manifest"
)

// defaultRegion is used when neither approute.json nor AWS_REGION set one.
const defaultRegion = "us-east-1"

func publishCmd(flags *globalFlags) *cobra.Command {
	var overrides config.PublishConfig

	cmd := &cobra.Command{
		Use:   "publish [dir]",
		Short: "Publish the route manifest to S3",
		Long: `Scan the app directory and upload the route manifest to an
S3-compatible bucket as <prefix>routes.json.

Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN.

Examples:
  approute publish --bucket my-routes --prefix sites/blog/
  approute publish --endpoint http://localhost:9000 --path-style --gzip`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			applyPublishOverrides(&cfg.Publish, overrides, cmd)

			root := appRoot(cfg, args)
			routes, err := scanRoutes(cmd.Context(), cfg, root, true)
			if err != nil {
				printValidationErrors(cmd.ErrOrStderr(), err)
				return err
			}
			m := manifest.Build(routes, manifest.RelativeTo(root))

			var opts []manifest.PublisherOption
			if cfg.Publish.Gzip {
				opts = append(opts, manifest.WithGzip(gzip.BestCompression))
			}
			pub := manifest.NewPublisher(newS3Client(cfg.Publish), cfg.Publish.Bucket, cfg.Publish.Prefix, opts...)

			key, err := pub.Publish(cmd.Context(), m)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Published %d routes to s3://%s/%s", m.Len(), cfg.Publish.Bucket, key)
			return nil
		},
	}

	cmd.Flags().StringVar(&overrides.Bucket, "bucket", "", "Destination bucket (default from approute.json)")
	cmd.Flags().StringVar(&overrides.Prefix, "prefix", "", "Key prefix")
	cmd.Flags().StringVar(&overrides.Region, "region", "", "Bucket region")
	cmd.Flags().StringVar(&overrides.Endpoint, "endpoint", "", "Custom S3 endpoint (MinIO, R2, ...)")
	cmd.Flags().BoolVar(&overrides.PathStyle, "path-style", false, "Use path-style addressing")
	cmd.Flags().BoolVar(&overrides.Gzip, "gzip", false, "Gzip the manifest")

	return cmd
}

// applyPublishOverrides copies the flags that were set onto dst.
func applyPublishOverrides(dst *config.PublishConfig, src config.PublishConfig, cmd *cobra.Command) {
	changed := cmd.Flags().Changed
	if changed("bucket") {
		dst.Bucket = src.Bucket
	}
	if changed("prefix") {
		dst.Prefix = src.Prefix
	}
	if changed("region") {
		dst.Region = src.Region
	}
	if changed("endpoint") {
		dst.Endpoint = src.Endpoint
	}
	if changed("path-style") {
		dst.PathStyle = src.PathStyle
	}
	if changed("gzip") {
		dst.Gzip = src.Gzip
	}
}

// newS3Client builds an S3 client from the publish settings and the
// standard AWS environment variables.
func newS3Client(cfg config.PublishConfig) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = defaultRegion
	}

	opts := s3.Options{
		Region:       region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}
