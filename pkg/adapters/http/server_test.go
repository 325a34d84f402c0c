package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/parley"
	api "github.com/aretw0/parley/pkg/adapters/http"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/history"
	"github.com/aretw0/parley/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gate = `
name: gate
participants:
  - name: Guard
  - name: Hero
start:
  edges:
    - to: halt
nodes:
  - key: halt
    owner: Guard
    text: Halt!
    edges:
      - to: pass
        text: Bribe the guard.
        conditions:
          - type: int
            participant: Hero
            variable: Coins
            op: ">="
            value: 10
        events:
          - type: modify_int
            participant: Hero
            variable: Coins
            delta: true
            value: -10
      - to: leave
        text: Leave.
  - key: pass
    kind: end
  - key: leave
    kind: end
`

type fixture struct {
	engine  *parley.Engine
	handler http.Handler
	store   *memory.Store
}

func setup(t *testing.T, opts ...api.Option) *fixture {
	t.Helper()
	loader, err := memory.NewFromSources(map[string]string{"gate": gate})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	eng, err := parley.New("", parley.WithLoader(loader), parley.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	store := memory.NewStore()
	opts = append([]api.Option{
		api.WithGatherer(reg),
		api.WithSyncer(history.NewSyncer(eng.Memory(), store)),
	}, opts...)
	srv := api.NewServer(eng, opts...)
	return &fixture{engine: eng, handler: srv.Handler(), store: store}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (f *fixture) start(t *testing.T, req api.CreateRequest) api.SessionView {
	t.Helper()
	w := f.do(t, http.MethodPost, "/sessions", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[api.SessionView](t, w)
}

func TestServer_Dialogues(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodGet, "/dialogues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"gate"}, decode[[]string](t, w))
}

func TestServer_CreateSession(t *testing.T) {
	f := setup(t)
	view := f.start(t, api.CreateRequest{Dialogue: "gate"})

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "gate", view.Dialogue)
	assert.False(t, view.Ended)
	require.NotNil(t, view.Node)
	assert.Equal(t, "halt", view.Node.Key)
	assert.Equal(t, "Halt!", view.Node.Text)
	assert.Equal(t, "Guard", view.Node.Speaker)

	require.Len(t, view.Options, 1, "a hero without coins can only leave")
	assert.Equal(t, "Leave.", view.Options[0].Text)
	assert.True(t, view.Options[0].End)
	require.Len(t, view.All, 2)
	assert.False(t, view.All[0].Satisfied)
	assert.Equal(t, "Bribe the guard.", view.All[0].Text)
}

func TestServer_ChooseWithOverrides(t *testing.T) {
	f := setup(t)
	view := f.start(t, api.CreateRequest{
		Dialogue:     "gate",
		Participants: []domain.ParticipantData{{Name: "Hero", Ints: map[string]int{"Coins": 25}}},
	})
	require.Len(t, view.Options, 2)

	w := f.do(t, http.MethodPost, "/sessions/"+view.ID+"/choose", api.ChooseRequest{Option: 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	after := decode[api.SessionView](t, w)
	assert.True(t, after.Ended)
	assert.Equal(t, "pass", after.Node.Key)
	assert.Empty(t, after.Options)

	stored, err := f.store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Contains(t, stored, domain.DialogueGUID("gate"), "history is flushed after every move")
}

func TestServer_ChooseFromAllUnsatisfied(t *testing.T) {
	f := setup(t)
	view := f.start(t, api.CreateRequest{Dialogue: "gate"})

	w := f.do(t, http.MethodPost, "/sessions/"+view.ID+"/choose", api.ChooseRequest{Option: 0, FromAll: true})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, decode[api.SessionView](t, w).Ended, "a rejected choice ends the session")

	w = f.do(t, http.MethodPost, "/sessions/"+view.ID+"/reevaluate", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_Reevaluate(t *testing.T) {
	f := setup(t)
	view := f.start(t, api.CreateRequest{Dialogue: "gate"})

	w := f.do(t, http.MethodPost, "/sessions/"+view.ID+"/reevaluate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[api.SessionView](t, w).Options, 1)
}

func TestServer_Errors(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/sessions", api.CreateRequest{Dialogue: "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "nope")

	w = f.do(t, http.MethodPost, "/sessions", api.CreateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/sessions/missing/choose", api.ChooseRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_DeleteSession(t *testing.T) {
	f := setup(t)
	view := f.start(t, api.CreateRequest{Dialogue: "gate"})

	w := f.do(t, http.MethodGet, "/sessions", nil)
	assert.Equal(t, []string{view.ID}, decode[[]string](t, w))

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/sessions/"+view.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/sessions/"+view.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/sessions/"+view.ID, nil).Code)
}

func TestServer_History(t *testing.T) {
	f := setup(t)
	f.start(t, api.CreateRequest{Dialogue: "gate"})

	w := f.do(t, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[map[string]json.RawMessage](t, w)
	assert.Contains(t, entries, domain.DialogueGUID("gate").String())

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/history", nil).Code)
	assert.Empty(t, f.engine.DialogueHistory())
	stored, err := f.store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestServer_Metrics(t *testing.T) {
	f := setup(t)
	f.start(t, api.CreateRequest{Dialogue: "gate"})

	w := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `parley_sessions_started_total{dialogue="gate",resumed="false"} 1`)
}

func TestServer_CORSAndHealth(t *testing.T) {
	f := setup(t, api.WithVersion("1.2.3\n"))

	w := f.do(t, http.MethodOptions, "/sessions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, "1.2.3", decode[map[string]string](t, w)["version"])
}

func TestServer_SessionEvents(t *testing.T) {
	f := setup(t)
	view := f.start(t, api.CreateRequest{Dialogue: "gate"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.handler.ServeHTTP(sub, httptest.NewRequest(http.MethodGet, "/sessions/"+view.ID+"/events", nil).WithContext(ctx))
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	w := f.do(t, http.MethodPost, "/sessions/"+view.ID+"/choose", api.ChooseRequest{Option: 0})
	require.Equal(t, http.StatusOK, w.Code)

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	out := sub.Body.String()
	assert.Contains(t, out, "event: ping")
	assert.Contains(t, out, `"ended":true`)
}

func TestServer_ReloadsWithoutWatcher(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodGet, "/events", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
