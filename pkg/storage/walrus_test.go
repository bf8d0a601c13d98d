package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/backend/internal/models"
)

func testWalrus(publisherURL string) *Walrus {
	return NewWalrus(WalrusConfig{
		PublisherURL:  publisherURL,
		AggregatorURL: "https://agg.example.com",
		EpochDays:     14,
		Attempts:      3,
		Delay:         5 * time.Millisecond,
		Timeout:       time.Second,
		MaxFileSize:   1 << 20,
	}, nil)
}

func TestStoreExhaustsExactlyThreeAttempts(t *testing.T) {
	attempts := 0
	var gaps []time.Duration
	last := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		gaps = append(gaps, time.Since(last))
		last = time.Now()
		w.WriteHeader(http.StatusInternalServerError) // 0-byte failing response
	}))
	defer srv.Close()

	w := testWalrus(srv.URL)
	_, err := w.Store(context.Background(), []byte("img"), "image/png", 30, "0xsender")

	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, 3, attempts)
	// Attempts after the first each wait the fixed delay.
	for _, gap := range gaps[1:] {
		assert.GreaterOrEqual(t, gap, 5*time.Millisecond)
	}
}

func TestStoreSucceedsOnNewlyCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "3", r.URL.Query().Get("epochs")) // ceil(30/14)
		assert.Equal(t, "0xsender", r.URL.Query().Get("send_object_to"))
		w.Write([]byte(`{"newlyCreated":{"blobObject":{"id":"0xobj","blobId":"blob-xyz"}}}`))
	}))
	defer srv.Close()

	w := testWalrus(srv.URL)
	ref, err := w.Store(context.Background(), []byte("img"), "image/png", 30, "0xsender")
	require.NoError(t, err)

	assert.Equal(t, "blob-xyz", ref.BlobID)
	assert.Equal(t, models.StorageWalrus, ref.StorageSource)
	// Storage object id is preferred in the public URL.
	assert.Equal(t, "https://agg.example.com/v1/blobs/0xobj", ref.URL)
}

func TestStoreAcceptsAlreadyCertified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"alreadyCertified":{"blobId":"blob-abc"}}`))
	}))
	defer srv.Close()

	w := testWalrus(srv.URL)
	ref, err := w.Store(context.Background(), []byte("img"), "image/png", 7, "")
	require.NoError(t, err)

	// No object id: the content-addressed blob id is the fallback.
	assert.Equal(t, "https://agg.example.com/v1/blobs/blob-abc", ref.URL)
}

func TestStoreRecoversWithinAttemptBudget(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"newlyCreated":{"blobObject":{"id":"0xobj","blobId":"blob-1"}}}`))
	}))
	defer srv.Close()

	w := testWalrus(srv.URL)
	ref, err := w.Store(context.Background(), []byte("img"), "image/png", 1, "")
	require.NoError(t, err)
	assert.Equal(t, "blob-1", ref.BlobID)
	assert.Equal(t, 3, attempts)
}

func TestStoreRejectsOversizeAndUnknownTypes(t *testing.T) {
	w := testWalrus("http://unused.invalid")

	_, err := w.Store(context.Background(), make([]byte, (1<<20)+1), "image/png", 1, "")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = w.Store(context.Background(), []byte("x"), "application/zip", 1, "")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestExternalRefPassesURLThroughVerbatim(t *testing.T) {
	const url = "https://cdn.example.com/path/ad.png?v=2"
	ref, err := ExternalRef(url)
	require.NoError(t, err)

	assert.Equal(t, url, ref.URL)
	assert.Empty(t, ref.BlobID)
	assert.Equal(t, models.StorageExternal, ref.StorageSource)
}

func TestExternalRefRejectsNonAbsoluteURLs(t *testing.T) {
	for _, bad := range []string{"", "ftp://host/x", "/relative/path", "not a url"} {
		_, err := ExternalRef(bad)
		assert.ErrorIs(t, err, ErrInvalidExternalURL, "input %q", bad)
	}
}

func TestEpochsForLease(t *testing.T) {
	w := testWalrus("http://unused.invalid")
	assert.Equal(t, 1, w.EpochsForLease(0))
	assert.Equal(t, 1, w.EpochsForLease(1))
	assert.Equal(t, 1, w.EpochsForLease(14))
	assert.Equal(t, 2, w.EpochsForLease(15))
	assert.Equal(t, 3, w.EpochsForLease(30))
}

func TestChecksumIsStable(t *testing.T) {
	a := Checksum([]byte("creative"))
	b := Checksum([]byte("creative"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Checksum([]byte("other")))
}
