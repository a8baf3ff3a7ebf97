// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
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

	"github.com/tfctl/objdiff/internal/config"
	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/meta"
)

func TestMain(m *testing.M) {
	cfg, err := filepath.Abs(filepath.Join("testdata", "objdiff.yaml"))
	if err != nil {
		panic(err)
	}
	cache, err := os.MkdirTemp("", "objdiff-command")
	if err != nil {
		panic(err)
	}
	os.Setenv("OBJDIFF_CFG_FILE", cfg)
	os.Setenv("OBJDIFF_CACHE_DIR", cache)

	code := m.Run()
	os.RemoveAll(cache)
	os.Exit(code)
}

// run executes objdiff with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { config.Config = config.Type{} })

	var stdout, stderr bytes.Buffer
	app := NewApp(meta.Meta{
		Args:    append([]string{"objdiff"}, args...),
		Context: context.Background(),
		Stdin:   strings.NewReader(stdin),
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	err := app.Run(context.Background(), append([]string{"objdiff"}, args...))
	return stdout.String(), err
}

func td(name string) string { return filepath.Join("testdata", name) }

func TestDiff_Raw(t *testing.T) {
	out, err := run(t, "", "diff", "-o", "raw", td("left.yaml"), td("right.json"))
	require.NoError(t, err)
	assert.Equal(t, "modified\treplicas\nremoved\tlabels.tier\nadded\tlabels.team\nmodified\tports\n", out)
}

func TestDiff_Text(t *testing.T) {
	out, err := run(t, "", "diff", "--titles", td("left.yaml"), td("right.json"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"KIND", "PATH", "BEFORE", "AFTER"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"modified", "ports", "[80,443]", "[80,8443]"}, strings.Fields(lines[4]))
}

func TestDiff_JSON(t *testing.T) {
	out, err := run(t, "", "diff", "--output=json", td("left.yaml"), td("right.json"))
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 4)
	assert.Equal(t, map[string]any{"kind": "removed", "path": "labels.tier", "before": "web"}, records[1])
}

func TestDiff_NoDifferences(t *testing.T) {
	out, err := run(t, "", "diff", "--exit-code", td("left.yaml"), td("same.json"))
	require.NoError(t, err)
	assert.Equal(t, "No differences.\n", out)
}

func TestDiff_ExitCode(t *testing.T) {
	_, err := run(t, "", "diff", "-e", "-o", "raw", td("left.yaml"), td("right.json"))
	assert.ErrorIs(t, err, ErrDifferences)
	assert.Equal(t, 1, ExitCode(err))
}

func TestDiff_RootFilterSort(t *testing.T) {
	out, err := run(t, "", "diff", "-o", "raw", "--root", "labels", td("left.yaml"), td("right.json"))
	require.NoError(t, err)
	assert.Equal(t, "removed\tlabels.tier\nadded\tlabels.team\n", out)

	out, err = run(t, "", "diff", "-o", "raw", "--filter", "kind=modified", "--sort", "-path", td("left.yaml"), td("right.json"))
	require.NoError(t, err)
	assert.Equal(t, "modified\treplicas\nmodified\tports\n", out)

	_, err = run(t, "", "diff", "--root", "missing", td("left.yaml"), td("right.json"))
	assert.ErrorContains(t, err, `root "missing" not found in left document`)
}

func TestDiff_Stdin(t *testing.T) {
	out, err := run(t, "name: api\nreplicas: 5\n", "diff", "-o", "raw", "-F", "yaml", "-", td("same.json"))
	require.NoError(t, err)
	assert.Equal(t, "modified\treplicas\nadded\tports\nadded\tlabels\n", out)

	_, err = run(t, "{}", "diff", "-", "-")
	assert.ErrorContains(t, err, "standard input can only be used for one side")
}

func TestDiff_Delta(t *testing.T) {
	out, err := run(t, "", "diff", "-o", "delta", td("left.yaml"), td("right.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "replicas")

	out, err = run(t, "", "diff", "-o", "delta", "-e", td("left.yaml"), td("same.json"))
	require.NoError(t, err)
	assert.Equal(t, "No differences.\n", out)
}

func TestDiff_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
		is       error
	}{
		{name: "one argument", args: []string{"diff", td("left.yaml")}, contains: "exactly two documents"},
		{name: "missing file", args: []string{"diff", td("nope.yaml"), td("left.yaml")}, contains: "cannot read"},
		{name: "bad format", args: []string{"diff", "-F", "toml", td("left.yaml"), td("right.json")}, contains: "unknown format"},
		{name: "bad output", args: []string{"diff", "-o", "xml", td("left.yaml"), td("right.json")}, contains: "must be one of"},
		{name: "bad filter key", args: []string{"diff", "-f", "colour=red", td("left.yaml"), td("right.json")}, contains: "unknown filter key"},
		{name: "bad sort field", args: []string{"diff", "-s", "size", td("left.yaml"), td("right.json")}, contains: "unknown sort field"},
		{name: "depth", args: []string{"diff", "--max-depth", "1", td("left.yaml"), td("right.json")}, contains: "cannot compare", is: differ.ErrDepthExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assert.Equal(t, 2, ExitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(ErrDifferences))
	assert.Equal(t, 2, ExitCode(errors.New("boom")))
}

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "json", "yaml", "raw", "delta"} {
		assert.NoError(t, OutputValidator(v), v)
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(42))
}

type fakeS3 struct {
	objects  map[string]string
	versions []types.ObjectVersion
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	body, ok := f.objects[awsv2.ToString(in.Key)+"@"+awsv2.ToString(in.VersionId)]
	if !ok {
		return nil, errors.New("NoSuchVersion")
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) ListObjectVersions(_ context.Context, _ *s3v2.ListObjectVersionsInput, _ ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error) {
	return &s3v2.ListObjectVersionsOutput{Versions: f.versions}, nil
}

func withFakeS3(t *testing.T) {
	t.Helper()
	now := time.Now()
	s3Override = &fakeS3{
		objects: map[string]string{
			"app.yaml@v1": "image: api:1\nreplicas: 2\n",
			"app.yaml@v2": "image: api:2\nreplicas: 2\n",
		},
		versions: []types.ObjectVersion{
			{Key: awsv2.String("app.yaml"), VersionId: awsv2.String("v1"), LastModified: awsv2.Time(now.Add(-48 * time.Hour)), Size: awsv2.Int64(24)},
			{Key: awsv2.String("app.yaml"), VersionId: awsv2.String("v2"), LastModified: awsv2.Time(now.Add(-time.Hour)), Size: awsv2.Int64(24), IsLatest: awsv2.Bool(true)},
		},
	}
	t.Cleanup(func() { s3Override = nil })
}

func TestVersions_List(t *testing.T) {
	withFakeS3(t)

	out, err := run(t, "", "versions", "--list", "s3://bkt/app.yaml")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "v2  "), "newest first")
	assert.Contains(t, lines[0], "latest")
	assert.Contains(t, lines[1], "2 days ago")
}

func TestVersions_Flags(t *testing.T) {
	withFakeS3(t)

	out, err := run(t, "", "versions", "-o", "raw", "--left-version", "v1", "--right-version", "v2", "s3://bkt/app.yaml")
	require.NoError(t, err)
	assert.Equal(t, "modified\timage\n", out)

	out, err = run(t, "", "versions", "-o", "json", "--left-version", "v1", "s3://bkt/app.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"after": "api:2"`, "right side defaults to latest")

	_, err = run(t, "", "versions", "--left-version", "v9", "s3://bkt/app.yaml")
	assert.ErrorContains(t, err, `version "v9" not found`)

	_, err = run(t, "", "versions", td("left.yaml"))
	assert.ErrorContains(t, err, "not an s3:// URI")
}

func TestVersions_Picker(t *testing.T) {
	withFakeS3(t)
	orig := selectVersions
	t.Cleanup(func() { selectVersions = orig })

	var offered []differ.Choice
	selectVersions = func(items []differ.Choice) ([]differ.Choice, error) {
		offered = items
		return []differ.Choice{items[0], items[1]}, nil
	}

	out, err := run(t, "", "versions", "-o", "raw", "s3://bkt/app.yaml")
	require.NoError(t, err)
	require.Len(t, offered, 2)
	assert.Equal(t, "v2", offered[0].ID)
	assert.Equal(t, "modified\timage\n", out)

	selectVersions = func([]differ.Choice) ([]differ.Choice, error) { return nil, nil }
	out, err = run(t, "", "versions", "s3://bkt/app.yaml")
	require.NoError(t, err, "quitting the picker is not an error")
	assert.Empty(t, out)
}
