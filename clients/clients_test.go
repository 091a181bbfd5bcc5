package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAroundQuery(t *testing.T) {
	q := BuildAroundQuery([]string{`["amenity"="cafe"]`}, 51.5115, -0.2732, 1000, 25*time.Second, 50)

	assert.True(t, strings.HasPrefix(q, "[out:json][timeout:25];"))
	assert.Contains(t, q, `node["amenity"="cafe"](around:1000,51.511500,-0.273200);`)
	assert.Contains(t, q, `way["amenity"="cafe"](around:1000,51.511500,-0.273200);`)
	assert.Contains(t, q, "out center 50;")
}

func TestOverpassClient_Query(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		gotQuery = r.PostForm.Get("data")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"elements":[
			{"type":"node","id":1,"lat":51.5,"lon":-0.1,"tags":{"name":"A"}},
			{"type":"way","id":2,"center":{"lat":51.6,"lon":-0.2},"tags":{"name":"B"}},
			{"type":"relation","id":3,"tags":{"name":"C"}}
		]}`))
	}))
	defer server.Close()

	client := NewOverpassClient(server.URL, time.Second)
	elements, err := client.Query(context.Background(), "[out:json];node(1);out;")
	require.NoError(t, err)
	require.Len(t, elements, 3)
	assert.Equal(t, "[out:json];node(1);out;", gotQuery)

	lat, lon, ok := elements[0].Coords()
	assert.True(t, ok)
	assert.Equal(t, 51.5, lat)
	assert.Equal(t, -0.1, lon)

	lat, _, ok = elements[1].Coords()
	assert.True(t, ok)
	assert.Equal(t, 51.6, lat)
	assert.Equal(t, "osm-way-2", elements[1].Key())

	_, _, ok = elements[2].Coords()
	assert.False(t, ok)
}

func TestOverpassClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad-json") {
			w.Write([]byte("<html>"))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewOverpassClient(server.URL, time.Second).Query(context.Background(), "q")
	assert.Error(t, err)

	_, err = NewOverpassClient(server.URL+"/bad-json", time.Second).Query(context.Background(), "q")
	assert.Error(t, err)
}

func TestGooglePlacesClient_SearchNearby(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "cafe", r.URL.Query().Get("type"))
		assert.Equal(t, "800", r.URL.Query().Get("radius"))
		w.Write([]byte(`{"status":"OK","results":[{"place_id":"abc","name":"Kiln Coffee","rating":4.6,
			"types":["cafe","food"],"vicinity":"1 High St","geometry":{"location":{"lat":51.51,"lng":-0.27}}}]}`))
	}))
	defer server.Close()

	client := NewGooglePlacesClient("test-key", time.Second).WithBaseURL(server.URL)
	places, err := client.SearchNearby(context.Background(), 51.5115, -0.2732, 800, "cafe")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "abc", places[0].PlaceID)
	assert.Equal(t, 51.51, places[0].Geometry.Location.Lat)
}

func TestGooglePlacesClient_DisabledWithoutKey(t *testing.T) {
	client := NewGooglePlacesClient("", time.Second)
	assert.False(t, client.Enabled())

	places, err := client.SearchNearby(context.Background(), 0, 0, 100, "cafe")
	assert.NoError(t, err)
	assert.Empty(t, places)
}
