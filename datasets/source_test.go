package datasets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jrsteele09/delivery-signin/datasets"
	"github.com/stretchr/testify/require"
)

func TestFSSource_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"managers.json": {Data: []byte(`[{"manager_id": "m1", "password": "pw", "name": "Dana"}]`)},
		"broken.json":   {Data: []byte(`{`)},
	}
	src := datasets.NewFSSource(fsys)
	ctx := context.Background()

	t.Run("loads", func(t *testing.T) {
		ds, err := src.Load(ctx, "managers.json")
		require.NoError(t, err)
		require.Len(t, ds, 1)
		require.Equal(t, "Dana", ds[0].Name())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := src.Load(ctx, "customers.json")
		require.Error(t, err)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := src.Load(ctx, "broken.json")
		require.Error(t, err)
	})

	t.Run("escaping locator", func(t *testing.T) {
		_, err := src.Load(ctx, "../managers.json")
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := src.Load(cancelled, "managers.json")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHTTPSource_Load(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/data/courier.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"courier_id": 42, "password": "pw2", "name": "Bob"}]`))
		case "/data/slow.json":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`[]`))
		case "/data/html.json":
			_, _ = w.Write([]byte(`<html></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := datasets.NewHTTPSource(srv.URL + "/data")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("fetches relative to base", func(t *testing.T) {
		ds, err := src.Load(ctx, "courier.json")
		require.NoError(t, err)
		require.Len(t, ds, 1)
		require.Equal(t, "Bob", ds[0].Name())
	})

	t.Run("fetches fresh every time", func(t *testing.T) {
		before := requests.Load()
		_, err := src.Load(ctx, "courier.json")
		require.NoError(t, err)
		_, err = src.Load(ctx, "courier.json")
		require.NoError(t, err)
		require.Equal(t, before+2, requests.Load())
	})

	t.Run("non-success status", func(t *testing.T) {
		_, err := src.Load(ctx, "managers.json")
		var statusErr *datasets.StatusError
		require.True(t, errors.As(err, &statusErr))
		require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		require.Equal(t, "managers.json", statusErr.Locator)
	})

	t.Run("unparseable body", func(t *testing.T) {
		_, err := src.Load(ctx, "html.json")
		require.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		timed, err := datasets.NewHTTPSource(srv.URL+"/data/", datasets.WithTimeout(20*time.Millisecond))
		require.NoError(t, err)
		_, err = timed.Load(ctx, "slow.json")
		require.Error(t, err)
	})

	t.Run("transport failure", func(t *testing.T) {
		dead, err := datasets.NewHTTPSource("http://127.0.0.1:1/")
		require.NoError(t, err)
		_, err = dead.Load(ctx, "courier.json")
		require.Error(t, err)
	})
}

func TestNewHTTPSource_RequiresAbsoluteURL(t *testing.T) {
	_, err := datasets.NewHTTPSource("data/")
	require.Error(t, err)
}
