// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/objdiff/internal/log"
)

// Options holds optional overrides for AWS config loading and S3 client
// construction. The zero value inherits the shell environment and the shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Options struct {
	Profile string
	Region  string
	// Endpoint points S3 at a compatible store such as MinIO. Setting it also
	// switches the client to path-style addressing.
	Endpoint string
}

// Option customizes Options.
type Option func(*Options)

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *Options) { o.Profile = profile }
}

// WithRegion sets the region override.
func WithRegion(region string) Option {
	return func(o *Options) { o.Region = region }
}

// WithEndpoint sets a custom S3 endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) { o.Endpoint = endpoint }
}

func resolve(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LoadAWSConfig loads AWS SDK v2 config, applying any overrides.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	o := resolve(opts)
	log.Debugf("opts applied: profile=%s, region=%s, endpoint=%s", o.Profile, o.Region, o.Endpoint)

	var loadOpts []func(*config.LoadOptions) error
	if o.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.Profile))
	}
	if o.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.Region))
	}
	if o.Endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(o.Endpoint))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	return cfg, nil
}

// NewS3 loads config and constructs an S3 client in one step.
func NewS3(ctx context.Context, opts ...Option) (*s3v2.Client, error) {
	cfg, err := LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	o := resolve(opts)
	client := s3v2.NewFromConfig(cfg, s3ClientOptions(o)...)
	log.Debugf("s3 client created")
	return client, nil
}

func s3ClientOptions(o Options) []func(*s3v2.Options) {
	var fns []func(*s3v2.Options)
	if o.Endpoint != "" {
		fns = append(fns, func(so *s3v2.Options) { so.UsePathStyle = true })
	}
	return fns
}
