package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func nominatim(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "35.0116", r.URL.Query().Get("lat"))
		assert.Equal(t, "135.7681", r.URL.Query().Get("lon"))
		assert.Equal(t, "munch-test", r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

var kyoto = Coordinates{Lat: 35.0116, Lon: 135.7681}

func TestReverse_PicksFirstNonEmptyField(t *testing.T) {
	srv, _ := nominatim(t, http.StatusOK, `{"address":{"city":"","town":"Kyoto","village":"Ignored"}}`)
	g := NewGeocoder(srv.URL+"/", "munch-test", time.Second)

	place, err := g.Reverse(context.Background(), kyoto)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", place)
}

func TestReverse_NoPlace(t *testing.T) {
	srv, _ := nominatim(t, http.StatusOK, `{"address":{"country":"Japan"}}`)
	g := NewGeocoder(srv.URL, "munch-test", time.Second)

	_, err := g.Reverse(context.Background(), kyoto)
	assert.ErrorIs(t, err, ErrNoPlace)
}

func TestReverse_Non2xx(t *testing.T) {
	srv, _ := nominatim(t, http.StatusTooManyRequests, `{}`)
	g := NewGeocoder(srv.URL, "munch-test", time.Second)

	_, err := g.Reverse(context.Background(), kyoto)
	assert.Error(t, err)
}

func TestPickCity(t *testing.T) {
	tests := []struct {
		name string
		addr nominatimAddress
		want string
	}{
		{"city", nominatimAddress{City: "Osaka", Town: "x"}, "Osaka"},
		{"town", nominatimAddress{Town: "Kyoto"}, "Kyoto"},
		{"village", nominatimAddress{Village: "Shirakawa"}, "Shirakawa"},
		{"municipality", nominatimAddress{Municipality: "Nara"}, "Nara"},
		{"none", nominatimAddress{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickCity(tt.addr))
		})
	}
}

func TestIPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":35.0116,"lon":135.7681,"city":"Kyoto"}`))
	}))
	defer srv.Close()

	p, err := IPSource{URL: srv.URL}.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, kyoto, p)
}

func TestIPSource_FailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	_, err := IPSource{URL: srv.URL}.Position(context.Background())
	assert.Error(t, err)
}

type countingSource struct {
	calls int
	p     Coordinates
	err   error
}

func (c *countingSource) Position(context.Context) (Coordinates, error) {
	c.calls++
	return c.p, c.err
}

func TestCachedSource_MaxAge(t *testing.T) {
	inner := &countingSource{p: kyoto}
	now := time.Unix(1000, 0)
	c := &CachedSource{Source: inner, MaxAge: time.Minute, now: func() time.Time { return now }}

	_, err := c.Position(context.Background())
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = c.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	now = now.Add(2 * time.Minute)
	_, err = c.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestEnricher_DetectsOnce(t *testing.T) {
	srv, hits := nominatim(t, http.StatusOK, `{"address":{"city":"","town":"Kyoto"}}`)
	source := &countingSource{p: kyoto}
	e := NewEnricher(source, NewGeocoder(srv.URL, "munch-test", time.Second), 5*time.Second)

	place, err := e.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", place)

	place, err = e.Detect(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRan)
	assert.Empty(t, place)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, int32(1), hits.Load())
}

func TestEnricher_PositionDenied(t *testing.T) {
	srv, hits := nominatim(t, http.StatusOK, `{}`)
	denied := errors.New("denied")
	e := NewEnricher(&countingSource{err: denied}, NewGeocoder(srv.URL, "munch-test", time.Second), 0)

	place, err := e.Detect(context.Background())
	assert.ErrorIs(t, err, denied)
	assert.Empty(t, place)
	assert.Zero(t, hits.Load(), "geocoder must not be called without a position")
}

func TestEnricher_Disabled(t *testing.T) {
	e := NewEnricher(nil, nil, 0)
	_, err := e.Detect(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
