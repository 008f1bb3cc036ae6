package deepface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumeon/visage/internal/domain"
)

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	cfg.RetryCount = 0
	return cfg
}

func representServer(t *testing.T, resp RepresentResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/represent", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req RepresentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Img)
		assert.Equal(t, "Facenet", req.Model)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestProvider_LocateFaces(t *testing.T) {
	server := representServer(t, RepresentResponse{
		Results: []RepresentResult{
			{FacialArea: FacialArea{X: 20, Y: 30, W: 100, H: 120}},
			{FacialArea: FacialArea{X: 200, Y: 10, W: 80, H: 90}},
		},
	})
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	boxes, err := p.LocateFaces(context.Background(), []byte("fake-image"))
	require.NoError(t, err)

	require.Len(t, boxes, 2)
	assert.Equal(t, domain.BoundingBox{Top: 30, Right: 120, Bottom: 150, Left: 20}, boxes[0])
	assert.Equal(t, domain.BoundingBox{Top: 10, Right: 280, Bottom: 100, Left: 200}, boxes[1])
}

func TestProvider_LocateFaces_NoFaces(t *testing.T) {
	server := representServer(t, RepresentResponse{})
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	boxes, err := p.LocateFaces(context.Background(), []byte("fake-image"))
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestProvider_EncodeFace_PicksRequestedBox(t *testing.T) {
	left := make([]float64, domain.EncodingDimensions)
	left[0] = 1
	right := make([]float64, domain.EncodingDimensions)
	right[0] = 2

	server := representServer(t, RepresentResponse{
		Results: []RepresentResult{
			{Embedding: left, FacialArea: FacialArea{X: 0, Y: 0, W: 100, H: 100}},
			{Embedding: right, FacialArea: FacialArea{X: 300, Y: 0, W: 100, H: 100}},
		},
	})
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	vector, err := p.EncodeFace(context.Background(), []byte("fake-image"),
		domain.BoundingBox{Top: 0, Right: 400, Bottom: 100, Left: 300})
	require.NoError(t, err)
	assert.Equal(t, 2.0, vector[0])
}

func TestProvider_EncodeFace_EmptyResponse(t *testing.T) {
	server := representServer(t, RepresentResponse{})
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	_, err := p.EncodeFace(context.Background(), []byte("fake-image"), domain.BoundingBox{})
	assert.ErrorIs(t, err, ErrNoFaceInResponse)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(RepresentResponse{}))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RetryCount = 2

	client := NewClient(cfg)
	_, err := client.Represent(context.Background(), "aW1n")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RetryCount = 3

	client := NewClient(cfg)
	_, err := client.Represent(context.Background(), "aW1n")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Timeout = 200 * time.Millisecond

	client := NewClient(cfg)
	_, err := client.Represent(context.Background(), "aW1n")
	assert.ErrorIs(t, err, ErrDeepFaceUnavailable)
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, time.Second, calculateBackoff(0))
	assert.Equal(t, time.Second, calculateBackoff(1))
	assert.Equal(t, 2*time.Second, calculateBackoff(2))
	assert.Equal(t, 4*time.Second, calculateBackoff(3))
	assert.Equal(t, 32*time.Second, calculateBackoff(100))
}
