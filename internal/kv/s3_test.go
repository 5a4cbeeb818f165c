package kv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjects is an in-memory objectAPI. Listing returns two objects per page
// so pagination is exercised.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	headErr error
}

func newFakeObjects() *fakeObjects { return &fakeObjects{objects: map[string][]byte{}} }

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(append([]byte(nil), data...)))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[aws.ToString(in.Key)] = data
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, aws.ToString(in.Key))
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjects) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	var names []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			names = append(names, k)
		}
	}
	f.mu.Unlock()
	sort.Strings(names)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := start + 2
	if end > len(names) {
		end = len(names)
	}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(names))}
	for _, n := range names[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(n)})
	}
	if end < len(names) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeObjects) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func TestS3ObjectLayout(t *testing.T) {
	fake := newFakeObjects()
	st := newS3(fake, "darew", "prod/")
	require.NoError(t, st.Put(context.Background(), "darew_projects", []byte(`[]`)))
	_, ok := fake.objects["prod/darew_projects.json"]
	assert.True(t, ok, "objects: %v", fake.objects)
}

func TestS3ListPaginatesAndSkipsForeignObjects(t *testing.T) {
	ctx := context.Background()
	fake := newFakeObjects()
	fake.objects["prod/readme.txt"] = []byte("x")
	fake.objects["prod/nested/darew_users.json"] = []byte("[]")
	st := newS3(fake, "darew", "prod/")
	for _, k := range []string{"darew_users", "darew_logs", "darew_stats", "darew_services", "darew_projects"} {
		require.NoError(t, st.Put(ctx, k, []byte(`[]`)))
	}
	keys, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"darew_logs", "darew_projects", "darew_services", "darew_stats", "darew_users"}, keys)
}

func TestS3PingSurfacesErrors(t *testing.T) {
	fake := newFakeObjects()
	fake.headErr = errors.New("forbidden")
	st := newS3(fake, "darew", "")
	assert.EqualError(t, st.Ping(context.Background()), "forbidden")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.False(t, isNotFound(errors.New("boom")))
}
