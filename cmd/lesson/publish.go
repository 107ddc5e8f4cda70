package main

import (
	"github.com/spf13/cobra"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/publish"
)

func publishCmd(root *rootOptions) *cobra.Command {
	var (
		bucket string
		prefix string
		sets   []string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload a static snapshot of the lesson to S3",
		Long: `Render the static site (index.html, lesson.css, lesson.md) and upload
it to an S3 bucket.

The destination comes from the publish section of the configuration or
LESSON_PUBLISH_* variables. Credentials are read from AWS_ACCESS_KEY_ID,
AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.

Examples:
  lesson publish --bucket=lessons --prefix=trig/inverse
  LESSON_PUBLISH_ENDPOINT=http://localhost:9000 lesson publish --bucket=dev`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Publish.Bucket = bucket
			}
			if prefix != "" {
				cfg.Publish.Prefix = prefix
			}
			if cfg.Publish.Bucket == "" {
				return lerrors.New("L050").
					WithDetail("no bucket configured").
					WithSuggestion("Pass --bucket or set LESSON_PUBLISH_BUCKET.")
			}

			artifacts, err := snapshot(sets)
			if err != nil {
				return err
			}

			client := publish.NewS3Client(publish.S3Options{
				Region:    cfg.Publish.Region,
				Endpoint:  cfg.Publish.Endpoint,
				PathStyle: cfg.Publish.PathStyle,
			})
			pub := publish.NewPublisher(client, cfg.Publish.Bucket, publish.WithPrefix(cfg.Publish.Prefix))

			keys, err := pub.Publish(cmd.Context(), artifacts)
			if err != nil {
				return err
			}
			for _, key := range keys {
				success(cmd, "s3://%s/%s", cfg.Publish.Bucket, key)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Destination bucket (default from config)")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Key prefix (default from config)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a variable (name=value), repeatable")

	return cmd
}
