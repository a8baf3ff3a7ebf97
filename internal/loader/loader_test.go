// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/tree"
)

// fakeS3 serves objects keyed by "bucket/key@version". The empty version is
// the current one.
type fakeS3 struct {
	objects  map[string]string
	versions []types.ObjectVersion
	gets     int
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.gets++
	k := awsv2.ToString(in.Bucket) + "/" + awsv2.ToString(in.Key) + "@" + awsv2.ToString(in.VersionId)
	body, ok := f.objects[k]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) ListObjectVersions(_ context.Context, _ *s3v2.ListObjectVersionsInput, _ ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error) {
	return &s3v2.ListObjectVersionsOutput{Versions: f.versions}, nil
}

func testdata(name string) string { return filepath.Join("testdata", name) }

func keys(t *testing.T, v tree.Value) []string {
	t.Helper()
	require.Equal(t, tree.KindMapping, v.Kind())
	return v.Mapping().Keys()
}

func TestLoad_DocumentOrder(t *testing.T) {
	ctx := context.Background()
	want := []string{"name", "replicas", "zeta", "alpha"}

	for _, file := range []string{"service.json", "service.yaml"} {
		t.Run(file, func(t *testing.T) {
			v, err := New().Load(ctx, testdata(file))
			require.NoError(t, err)
			assert.Equal(t, want, keys(t, v))
		})
	}
}

func TestLoad_FormatsAgree(t *testing.T) {
	ctx := context.Background()
	l := New()

	j, err := l.Load(ctx, testdata("service.json"))
	require.NoError(t, err)
	y, err := l.Load(ctx, testdata("service.yaml"))
	require.NoError(t, err)

	diffs, err := differ.Compare(j, y)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestLoad_YAMLAnchors(t *testing.T) {
	v, err := New().Load(context.Background(), testdata("anchors.yaml"))
	require.NoError(t, err)

	prod, _, ok := tree.Lookup(v, "prod")
	require.True(t, ok)
	assert.Equal(t, `{"timeout":30,"retries":5}`, prod.String())

	shared, _, ok := tree.Lookup(v, "shared")
	require.True(t, ok)
	assert.Equal(t, `{"timeout":30,"retries":2}`, shared.String())
}

func TestLoad_HCL(t *testing.T) {
	v, err := New().Load(context.Background(), testdata("main.hcl"))
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "tags", "resource", "rule"}, keys(t, v))

	bucket, _, ok := tree.Lookup(v, "resource.aws_s3_bucket.logs.bucket")
	require.True(t, ok)
	assert.Equal(t, "logs", bucket.AsString())

	rules, _, ok := tree.Lookup(v, "rule")
	require.True(t, ok)
	require.Equal(t, tree.KindSequence, rules.Kind())
	assert.Equal(t, `[{"port":80},{"port":443}]`, rules.String())
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		spec     string
		opts     []Option
		wantRead bool
		contains string
	}{
		{name: "missing file", spec: testdata("nope.json"), wantRead: true, contains: "cannot read"},
		{name: "empty spec", spec: "", wantRead: true, contains: "empty source"},
		{name: "bad json", spec: testdata("bad.json"), contains: "cannot parse testdata/bad.json as json"},
		{name: "cyclic alias", spec: testdata("cyclic.yaml"), contains: "used inside itself"},
		{name: "hcl reference", spec: testdata("ref.hcl"), contains: "as hcl"},
		{name: "forced format", spec: testdata("main.hcl"), opts: []Option{WithFormat(FormatJSON)}, contains: "as json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...).Load(ctx, tt.spec)
			require.Error(t, err)
			assert.Contains(t, filepath.ToSlash(err.Error()), tt.contains)

			var readErr *ReadError
			var parseErr *ParseError
			assert.Equal(t, tt.wantRead, errors.As(err, &readErr))
			assert.Equal(t, !tt.wantRead, errors.As(err, &parseErr))
		})
	}
}

func TestLoad_ContentDetection(t *testing.T) {
	v, err := New().Load(context.Background(), testdata("noext"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v.String())
}

func TestLoad_Stdin(t *testing.T) {
	ctx := context.Background()
	l := New(WithStdin(bytes.NewBufferString("a: [1, 2]\n")))

	v, err := l.Load(ctx, "-")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2]}`, v.String())

	_, err = l.Load(ctx, "-")
	assert.ErrorIs(t, err, ErrStdinConsumed)
	assert.ErrorContains(t, err, "cannot read <stdin>")
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		spec    string
		want    Source
		wantErr bool
	}{
		{spec: "-", want: Source{Kind: SourceStdin, Spec: "-"}},
		{spec: "a/b.yaml", want: Source{Kind: SourceFile, Spec: "a/b.yaml", Path: "a/b.yaml"}},
		{spec: "s3://bkt/dir/doc.json", want: Source{Kind: SourceS3, Spec: "s3://bkt/dir/doc.json", Bucket: "bkt", Key: "dir/doc.json"}},
		{spec: "s3://bkt/doc.json?versionId=abc", want: Source{Kind: SourceS3, Spec: "s3://bkt/doc.json?versionId=abc", Bucket: "bkt", Key: "doc.json", VersionID: "abc"}},
		{spec: "s3://bkt", wantErr: true},
		{spec: "s3:///key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseSource(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_WithVersion(t *testing.T) {
	src, err := ParseSource("s3://bkt/dir/doc.json")
	require.NoError(t, err)
	assert.Equal(t, "s3://bkt/dir/doc.json?versionId=v1", src.WithVersion("v1"))
	assert.Equal(t, "s3://bkt/dir/doc.json", src.WithVersion(""))
}

func TestLoad_S3(t *testing.T) {
	t.Setenv("OBJDIFF_CACHE_DIR", t.TempDir())
	t.Setenv("OBJDIFF_CACHE", "1")
	ctx := context.Background()

	fake := &fakeS3{objects: map[string]string{
		"bkt/cfg.yaml@":   "b: 2\na: 1\n",
		"bkt/cfg.yaml@v1": "a: 1\n",
	}}
	l := New(WithS3Client(fake))

	v, err := l.Load(ctx, "s3://bkt/cfg.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, keys(t, v))

	for range 2 {
		v, err = l.Load(ctx, "s3://bkt/cfg.yaml?versionId=v1")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, v.String())
	}
	assert.Equal(t, 2, fake.gets, "pinned version is served from cache")

	_, err = l.Load(ctx, "s3://bkt/missing.yaml")
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Contains(t, err.Error(), "NoSuchKey")
}

func TestListVersions(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeS3{versions: []types.ObjectVersion{
		{Key: awsv2.String("cfg.yaml"), VersionId: awsv2.String("old"), LastModified: awsv2.Time(t0), Size: awsv2.Int64(10)},
		{Key: awsv2.String("cfg.yaml.bak"), VersionId: awsv2.String("other"), LastModified: awsv2.Time(t0)},
		{Key: awsv2.String("cfg.yaml"), VersionId: awsv2.String("new"), LastModified: awsv2.Time(t0.Add(time.Hour)), IsLatest: awsv2.Bool(true)},
	}}

	versions, err := New(WithS3Client(fake)).ListVersions(context.Background(), "s3://bkt/cfg.yaml")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "new", versions[0].ID)
	assert.True(t, versions[0].IsLatest)
	assert.Equal(t, "old", versions[1].ID)
	assert.Equal(t, int64(10), versions[1].Size)

	_, err = New(WithS3Client(fake)).ListVersions(context.Background(), testdata("service.json"))
	assert.ErrorContains(t, err, "not an s3:// URI")
}

func TestMain(m *testing.M) {
	// Keep S3 tests away from the user's real cache.
	dir, err := os.MkdirTemp("", "objdiff-loader")
	if err != nil {
		panic(err)
	}
	os.Setenv("OBJDIFF_CACHE_DIR", dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
