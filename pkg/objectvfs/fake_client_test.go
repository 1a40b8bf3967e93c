package objectvfs_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/klauspost/compress/s2"
)

// fakeClient keeps objects in a map and fails the way S3 does for missing
// keys.
type fakeClient struct {
	mutex   sync.Mutex
	objects map[string][]byte
	puts    int
	// putErr, when set, fails every PutObject.
	putErr error
	// When putRelease is set, PutObject reports on putStarted and waits for
	// putRelease before storing anything.
	putStarted chan string
	putRelease chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: make(map[string][]byte)}
}

func (c *fakeClient) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, ok := c.objects[aws.ToString(params.Key)]

	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (c *fakeClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if c.putErr != nil {
		return nil, c.putErr
	}

	if c.putRelease != nil {
		c.putStarted <- aws.ToString(params.Key)
		<-c.putRelease
	}

	data, err := io.ReadAll(params.Body)

	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.objects[aws.ToString(params.Key)] = data
	c.puts++

	return &s3.PutObjectOutput{}, nil
}

func (c *fakeClient) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, ok := c.objects[aws.ToString(params.Key)]

	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}

	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (c *fakeClient) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.objects, aws.ToString(params.Key))

	return &s3.DeleteObjectOutput{}, nil
}

func (c *fakeClient) put(key string, data []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.objects[key] = s2.Encode(nil, data)
}

// decoded returns the stored contents of key.
func (c *fakeClient) decoded(key string) ([]byte, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, ok := c.objects[key]

	if !ok {
		return nil, false
	}

	decoded, err := s2.Decode(nil, data)

	if err != nil {
		return nil, false
	}

	return decoded, true
}

func (c *fakeClient) keys() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	keys := make([]string, 0, len(c.objects))

	for key := range c.objects {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func (c *fakeClient) putCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.puts
}
