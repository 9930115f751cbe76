package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestObjectKey(t *testing.T) {
	cases := map[string]string{
		"report.pdf":            "applications/a1/report.pdf",
		"../../etc/passwd":      "applications/a1/passwd",
		`C:\Users\me\notes.txt`: "applications/a1/notes.txt",
		"":                      "applications/a1/attachment",
		"..":                    "applications/a1/attachment",
	}
	for in, want := range cases {
		assert.Equal(t, want, ObjectKey("a1", in), in)
	}
}

func TestObjectPrefix(t *testing.T) {
	assert.Equal(t, "applications/xyz/", ObjectPrefix("xyz"))
}

func TestNewBucketDefaultsExpiry(t *testing.T) {
	b, err := NewBucket(Options{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "b"})
	assert.NoError(t, err)
	assert.Equal(t, "b", b.name)
	assert.Positive(t, b.expiry)
}

func listing(objs ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objs))
	for _, o := range objs {
		ch <- o
	}
	close(ch)
	return ch
}

func TestForwardObjects(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("forwards until the listing ends", func(t *testing.T) {
		out := make(chan minio.ObjectInfo)
		go forwardObjects(context.Background(), "p/", listing(minio.ObjectInfo{Key: "p/a"}, minio.ObjectInfo{Key: "p/b"}), out)

		var keys []string
		for o := range out {
			keys = append(keys, o.Key)
		}
		assert.Equal(t, []string{"p/a", "p/b"}, keys)
	})

	t.Run("stops on a listing error", func(t *testing.T) {
		out := make(chan minio.ObjectInfo)
		go forwardObjects(context.Background(), "p/", listing(minio.ObjectInfo{Err: errors.New("denied")}, minio.ObjectInfo{Key: "p/a"}), out)

		_, ok := <-out
		assert.False(t, ok)
	})

	t.Run("returns when nobody reads after cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		out := make(chan minio.ObjectInfo)
		done := make(chan struct{})
		go func() {
			forwardObjects(ctx, "p/", listing(minio.ObjectInfo{Key: "p/a"}, minio.ObjectInfo{Key: "p/b"}), out)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			require.Fail(t, "forwarder blocked after cancel")
		}
	})
}
