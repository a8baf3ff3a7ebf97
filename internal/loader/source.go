// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"
	"net/url"
	"strings"
)

// SourceKind says where a document comes from.
type SourceKind int

const (
	SourceFile SourceKind = iota
	SourceStdin
	SourceS3
)

// Source is a parsed source spec.
type Source struct {
	Kind SourceKind
	Spec string

	// Path is set for SourceFile.
	Path string

	// Bucket, Key and VersionID are set for SourceS3. An empty VersionID
	// means the current version.
	Bucket    string
	Key       string
	VersionID string
}

// ParseSource classifies spec. It never touches the file system or network.
func ParseSource(spec string) (Source, error) {
	switch {
	case spec == "":
		return Source{}, fmt.Errorf("empty source")
	case spec == "-":
		return Source{Kind: SourceStdin, Spec: spec}, nil
	case !strings.HasPrefix(spec, "s3://"):
		return Source{Kind: SourceFile, Spec: spec, Path: spec}, nil
	}

	u, err := url.Parse(spec)
	if err != nil {
		return Source{}, fmt.Errorf("invalid S3 URI %q: %w", spec, err)
	}

	src := Source{
		Kind:      SourceS3,
		Spec:      spec,
		Bucket:    u.Host,
		Key:       strings.TrimPrefix(u.Path, "/"),
		VersionID: u.Query().Get("versionId"),
	}
	if src.Bucket == "" || src.Key == "" {
		return Source{}, fmt.Errorf("invalid S3 URI %q: want s3://bucket/key", spec)
	}
	return src, nil
}

// WithVersion returns the S3 spec for a specific version of the same object.
func (s Source) WithVersion(id string) string {
	u := url.URL{Scheme: "s3", Host: s.Bucket, Path: "/" + s.Key}
	if id != "" {
		u.RawQuery = url.Values{"versionId": []string{id}}.Encode()
	}
	return u.String()
}

// name is used for extension based format detection.
func (s Source) name() string {
	switch s.Kind {
	case SourceFile:
		return s.Path
	case SourceS3:
		return s.Key
	}
	return ""
}

func (s Source) String() string {
	if s.Kind == SourceStdin {
		return "<stdin>"
	}
	return s.Spec
}
