package dispatch

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/colornode/internal/colors"
	"github.com/smazurov/colornode/internal/content"
	"github.com/smazurov/colornode/internal/events"
	"github.com/smazurov/colornode/internal/led"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexBody = "<html><body>pick a color</body></html>"

type fixture struct {
	dispatcher *Dispatcher
	sim        *led.Sim
	array      *led.Array
	bus        *events.Bus
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "index.html", []byte(indexBody), 0o644))
	require.NoError(t, afero.WriteFile(fs, "style.css", []byte("body{}"), 0o644))

	store := content.NewFSStore(fs)
	sim := led.NewSim(8, discardLogger())
	array := led.NewArray(sim)
	bus := events.New()

	return &fixture{
		dispatcher: New(Options{
			Store:    store,
			Resolver: content.NewResolver(store, content.DefaultIndex),
			Array:    array,
			EventBus: bus,
			Logger:   discardLogger(),
		}),
		sim:   sim,
		array: array,
		bus:   bus,
	}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.dispatcher.ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func assertUniform(t *testing.T, sim *led.Sim, want colors.Color) {
	t.Helper()
	for i, px := range sim.Pixels() {
		assert.Equal(t, want, px, "pixel %d", i)
	}
}

func TestGetServesIndex(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Equal(t, indexBody, rec.Body.String())
	assert.Equal(t, 0, f.sim.Shows())
}

func TestGetServesTypedResource(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/style.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))
	assert.Equal(t, "body{}", rec.Body.String())
}

func TestMissingResource(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/missing.html", "/dir/", "/../etc/passwd"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.Path = target
		rec := f.do(req)

		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"), target)
		assert.Equal(t, NotFoundBody, rec.Body.String(), target)
	}
}

func TestPostColorAppliesToEveryPosition(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/", url.Values{"Color": {"00FF00"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, indexBody, rec.Body.String())
	assertUniform(t, f.sim, colors.Color{G: 255})
	assert.Equal(t, 1, f.sim.Shows())
	assert.Equal(t, colors.Color{G: 255}, f.array.Current())
}

func TestPostMalformedColorStillDelivers(t *testing.T) {
	f := newFixture(t)
	rejected := make(chan events.ColorRejectedEvent, 1)
	defer events.On(f.bus, func(e events.ColorRejectedEvent) { rejected <- e })()

	rec := f.do(postForm("/", url.Values{"Color": {"ZZ"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, indexBody, rec.Body.String())
	assert.Equal(t, 0, f.sim.Shows())
	assert.Equal(t, colors.Black, f.array.Current())

	select {
	case e := <-rejected:
		assert.Equal(t, "ZZ", e.Input)
		assert.Equal(t, events.ReasonMalformed, e.Reason)
		assert.Equal(t, events.SourceForm, e.Source)
	case <-time.After(time.Second):
		t.Fatal("no rejection event")
	}
}

func TestPostInvalidDigitIsRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.array.Apply(colors.Color{R: 255}))

	f.do(postForm("/", url.Values{"Color": {"00GG00"}}))

	assert.Equal(t, 1, f.sim.Shows())
	assert.Equal(t, colors.Color{R: 255}, f.array.Current())
}

func TestPostToMissingPathStillApplies(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/nothing-here", url.Values{"Color": {"0000FF"}}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, NotFoundBody, rec.Body.String())
	assertUniform(t, f.sim, colors.Color{B: 255})
}

func TestPostColorFromQuery(t *testing.T) {
	f := newFixture(t)

	f.do(httptest.NewRequest(http.MethodPost, "/?Color=FF0000", nil))

	assert.Equal(t, colors.Color{R: 255}, f.array.Current())
}

func TestGetIgnoresColor(t *testing.T) {
	f := newFixture(t)

	f.do(httptest.NewRequest(http.MethodGet, "/?Color=FF0000", nil))

	assert.Equal(t, 0, f.sim.Shows())
	assert.Equal(t, colors.Black, f.array.Current())
}

func TestPostOtherArgumentsAreIgnored(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/", url.Values{
		"plain":      {"Color=112233"},
		"brightness": {"40"},
		"Color":      {"112233"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.sim.Shows())
	assert.Equal(t, colors.Color{R: 0x11, G: 0x22, B: 0x33}, f.array.Current())
}

func TestPostRepeatedColorAppliesInOrder(t *testing.T) {
	f := newFixture(t)

	f.do(postForm("/", url.Values{"Color": {"FF0000", "bad", "00FF00"}}))

	assert.Equal(t, 2, f.sim.Shows())
	assert.Equal(t, colors.Color{G: 255}, f.array.Current())
}

func TestPostMultipartColor(t *testing.T) {
	f := newFixture(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("Color", "ABCDEF"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	f.do(req)

	assert.Equal(t, colors.Color{R: 0xAB, G: 0xCD, B: 0xEF}, f.array.Current())
}

type brokenStore struct{}

func (brokenStore) Exists(string) bool { return true }

func (brokenStore) Open(name string) (afero.File, error) {
	return nil, errors.Join(content.ErrOpen, errors.New("i/o error"))
}

func TestOpenFailureIs404(t *testing.T) {
	sim := led.NewSim(2, discardLogger())
	d := New(Options{Store: brokenStore{}, Array: led.NewArray(sim), Logger: discardLogger()})

	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, postForm("/index.html", url.Values{"Color": {"010203"}}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "404: "), rec.Body.String())
	assert.NotEqual(t, NotFoundBody, rec.Body.String())
	assert.Equal(t, colors.Color{R: 1, G: 2, B: 3}, sim.Pixels()[0])
}

func TestRequestServedEvent(t *testing.T) {
	f := newFixture(t)
	served := make(chan events.RequestServedEvent, 4)
	defer events.On(f.bus, func(e events.RequestServedEvent) { served <- e })()

	f.do(httptest.NewRequest(http.MethodGet, "/missing", nil))

	select {
	case e := <-served:
		assert.Equal(t, http.MethodGet, e.Method)
		assert.Equal(t, "/missing", e.Path)
		assert.Equal(t, http.StatusNotFound, e.Status)
	case <-time.After(time.Second):
		t.Fatal("no request event")
	}
}

type failingStrip struct{ *led.Sim }

func (failingStrip) Show() error { return errors.New("spi tx failed") }

func TestApplyDeviceFailure(t *testing.T) {
	bus := events.New()
	rejected := make(chan events.ColorRejectedEvent, 1)
	defer events.On(bus, func(e events.ColorRejectedEvent) { rejected <- e })()

	array := led.NewArray(failingStrip{led.NewSim(2, discardLogger())})
	d := New(Options{Store: brokenStore{}, Array: array, EventBus: bus, Logger: discardLogger()})

	err := d.Apply(colors.Color{R: 9}, events.SourceAPI)
	require.Error(t, err)
	assert.Equal(t, colors.Black, array.Current())

	select {
	case e := <-rejected:
		assert.Equal(t, events.ReasonDevice, e.Reason)
		assert.Equal(t, events.SourceAPI, e.Source)
	case <-time.After(time.Second):
		t.Fatal("no rejection event")
	}
}

func TestApplyPublishesAppliedEvent(t *testing.T) {
	f := newFixture(t)
	applied := make(chan events.ColorAppliedEvent, 1)
	defer events.On(f.bus, func(e events.ColorAppliedEvent) { applied <- e })()

	require.NoError(t, f.dispatcher.Apply(colors.Color{R: 255, B: 255}, events.SourceBoot))

	select {
	case e := <-applied:
		assert.Equal(t, "FF00FF", e.Hex)
		assert.Equal(t, 8, e.Positions)
		assert.Equal(t, events.SourceBoot, e.Source)
	case <-time.After(time.Second):
		t.Fatal("no applied event")
	}
	assert.Same(t, f.array, f.dispatcher.Array())
}
