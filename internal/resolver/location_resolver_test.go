package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/config"
)

const registryPayload = `{
	"realLocationId": {
		"_id": "loc-1",
		"name": "강남 카페 2호점",
		"locationGroupId": {"_id": "group-1", "name": "강남 카페"}
	}
}`

func newClient(baseURL string, maxRetries int) *RegistryClient {
	return NewRegistryClient(config.ResolverConfig{
		BaseURL:    baseURL,
		Token:      "registry-token",
		Timeout:    time.Second,
		MaxRetries: maxRetries,
		RetryDelay: 10 * time.Millisecond,
	}, nil)
}

func TestRegistryClientResolveSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/proj-1/contes/scene-1/real-location", r.URL.Path)
		assert.Equal(t, "Bearer registry-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(registryPayload)) //nolint:errcheck
	}))
	defer server.Close()

	loc, err := newClient(server.URL, 0).Resolve(context.Background(), "proj-1", "scene-1")
	require.NoError(t, err)
	assert.Equal(t, "group-1", loc.LocationGroupID)
	assert.Equal(t, "loc-1", loc.RealLocationID)
	assert.Equal(t, "강남 카페", loc.GroupName)
	assert.Equal(t, "강남 카페 2호점", loc.RealLocationName)
}

func TestRegistryClientRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(registryPayload)) //nolint:errcheck
	}))
	defer server.Close()

	loc, err := newClient(server.URL, 2).Resolve(context.Background(), "proj-1", "scene-1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "group-1", loc.LocationGroupID)
}

func TestRegistryClientDoesNotRetryNotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newClient(server.URL, 3).Resolve(context.Background(), "proj-1", "scene-1")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRegistryClientGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newClient(server.URL, 2).Resolve(context.Background(), "proj-1", "scene-1")
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRegistryClientRejectsIncompletePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"realLocationId": {"_id": "", "name": "이름만 있음"}}`)) //nolint:errcheck
	}))
	defer server.Close()

	_, err := newClient(server.URL, 0).Resolve(context.Background(), "proj-1", "scene-1")
	require.Error(t, err)
}

func TestRegistryClientHonoursContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(server.URL, 5).Resolve(ctx, "proj-1", "scene-1")
	require.Error(t, err)
}

func TestFallbackIsSingletonPerScene(t *testing.T) {
	a := Fallback(7)
	b := Fallback(9)

	assert.Equal(t, "unknown_scene_7", a.LocationGroupID)
	assert.Equal(t, "unknown_scene_9", b.LocationGroupID)
	assert.Equal(t, "미정", a.GroupName)
	assert.NotEqual(t, a.LocationGroupID, b.LocationGroupID)
}
