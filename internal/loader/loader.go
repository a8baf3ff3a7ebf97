// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	awsx "github.com/tfctl/objdiff/internal/aws"
	"github.com/tfctl/objdiff/internal/log"
	"github.com/tfctl/objdiff/internal/tree"
)

// ErrStdinConsumed is returned when "-" is loaded more than once.
var ErrStdinConsumed = errors.New("standard input was already read")

// Loader reads and parses documents. It is safe for concurrent use.
type Loader struct {
	format  Format
	stdin   io.Reader
	awsOpts []awsx.Option

	mu        sync.Mutex
	s3        S3API
	stdinUsed bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFormat forces a format instead of detecting one.
func WithFormat(f Format) Option {
	return func(l *Loader) { l.format = f }
}

// WithStdin replaces os.Stdin as the reader for "-".
func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.stdin = r }
}

// WithS3Client supplies the S3 client instead of building one from the AWS
// config chain.
func WithS3Client(c S3API) Option {
	return func(l *Loader) { l.s3 = c }
}

// WithAWS sets the options used when the S3 client is built on first use.
func WithAWS(opts ...awsx.Option) Option {
	return func(l *Loader) { l.awsOpts = append(l.awsOpts, opts...) }
}

// New returns a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{stdin: os.Stdin}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads spec and parses it into a value.
func (l *Loader) Load(ctx context.Context, spec string) (tree.Value, error) {
	src, err := ParseSource(spec)
	if err != nil {
		return tree.Value{}, &ReadError{Source: spec, Err: err}
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return tree.Value{}, &ReadError{Source: src.String(), Err: err}
	}
	log.Debugf("read %s: %d bytes", src, len(data))

	return l.Parse(src.name(), data, src.String())
}

// Parse parses data that was obtained elsewhere. name feeds extension based
// detection and label names the document in errors.
func (l *Loader) Parse(name string, data []byte, label string) (tree.Value, error) {
	format := l.format
	if format == FormatAuto {
		format = detectFormat(name, data)
	}

	var (
		v   tree.Value
		err error
	)
	switch format {
	case FormatJSON:
		v, err = parseJSON(data)
	case FormatYAML:
		v, err = parseYAML(data)
	case FormatHCL:
		v, err = parseHCL(data, name)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return tree.Value{}, &ParseError{Source: label, Format: format, Err: err}
	}
	return v, nil
}

func (l *Loader) read(ctx context.Context, src Source) ([]byte, error) {
	switch src.Kind {
	case SourceStdin:
		l.mu.Lock()
		used := l.stdinUsed
		l.stdinUsed = true
		l.mu.Unlock()
		if used {
			return nil, ErrStdinConsumed
		}
		return io.ReadAll(l.stdin)
	case SourceS3:
		return l.readS3(ctx, src)
	}
	return os.ReadFile(src.Path)
}

// s3Client returns the configured client, building one on first use.
func (l *Loader) s3Client(ctx context.Context) (S3API, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.s3 != nil {
		return l.s3, nil
	}
	client, err := awsx.NewS3(ctx, l.awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	l.s3 = client
	return l.s3, nil
}

// Load is shorthand for New(opts...).Load(ctx, spec).
func Load(ctx context.Context, spec string, opts ...Option) (tree.Value, error) {
	return New(opts...).Load(ctx, spec)
}
