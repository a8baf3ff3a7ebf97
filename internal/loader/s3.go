// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/objdiff/internal/cacheutil"
	"github.com/tfctl/objdiff/internal/config"
	"github.com/tfctl/objdiff/internal/log"
)

// S3API is the subset of the S3 client the loader calls.
type S3API interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	ListObjectVersions(ctx context.Context, params *s3v2.ListObjectVersionsInput, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error)
}

// ObjectVersion describes one stored version of an S3 object.
type ObjectVersion struct {
	ID           string
	LastModified time.Time
	Size         int64
	IsLatest     bool
}

// readS3 fetches an object. Pinned versions never change, so they are served
// from and written to the local cache.
func (l *Loader) readS3(ctx context.Context, src Source) ([]byte, error) {
	subdirs := []string{"s3", src.Bucket, src.Key}
	if src.VersionID != "" {
		if entry, ok := cacheutil.Read(subdirs, src.VersionID); ok {
			return entry.Data, nil
		}
	}

	svc, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	input := &s3v2.GetObjectInput{
		Bucket: awsv2.String(src.Bucket),
		Key:    awsv2.String(src.Key),
	}
	if src.VersionID != "" {
		input.VersionId = awsv2.String(src.VersionID)
	}

	result, err := svc.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	if src.VersionID != "" {
		if err := cacheutil.Write(subdirs, src.VersionID, data); err != nil {
			log.WithError(err).Warnf("error writing to cache")
		}
	}
	return data, nil
}

// ListVersions returns the versions of the object named by an s3:// spec,
// newest first. Other keys sharing the prefix are skipped.
func (l *Loader) ListVersions(ctx context.Context, spec string) ([]ObjectVersion, error) {
	src, err := ParseSource(spec)
	if err != nil {
		return nil, err
	}
	if src.Kind != SourceS3 {
		return nil, fmt.Errorf("%s is not an s3:// URI", spec)
	}

	svc, err := l.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	paginator := s3v2.NewListObjectVersionsPaginator(svc, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(src.Bucket),
		Prefix: awsv2.String(src.Key),
	})

	var versions []ObjectVersion
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list object versions: %w", err)
		}
		for _, v := range page.Versions {
			if awsv2.ToString(v.Key) != src.Key || v.VersionId == nil {
				log.Debugf("skipping version of %s", awsv2.ToString(v.Key))
				continue
			}
			versions = append(versions, ObjectVersion{
				ID:           awsv2.ToString(v.VersionId),
				LastModified: awsv2.ToTime(v.LastModified),
				Size:         awsv2.ToInt64(v.Size),
				IsLatest:     awsv2.ToBool(v.IsLatest),
			})
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].LastModified.After(versions[j].LastModified)
	})
	return versions, nil
}

// PurgeCache drops cached object versions older than the cache.clean config
// value, in hours. Unset or zero keeps everything.
func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean", 0)
	return cacheutil.Purge(cleanHours)
}
