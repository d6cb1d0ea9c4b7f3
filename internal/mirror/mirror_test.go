package mirror

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/orgchart/internal/domain"
	"github.com/alexanderramin/orgchart/internal/repository"
	"github.com/alexanderramin/orgchart/internal/testutil"
	"github.com/alexanderramin/orgchart/internal/workbook"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const receiveTimeout = 5 * time.Second

func memoryOpener() Opener {
	return SQLiteOpener(":memory:", "", nil)
}

// gatedOpener holds startup until release is closed.
func gatedOpener(release <-chan struct{}) Opener {
	open := memoryOpener()
	return func(ctx context.Context) (*Backend, error) {
		<-release
		return open(ctx)
	}
}

func newTestMirror(t *testing.T, open Opener) *Mirror {
	t.Helper()
	m := New(context.Background(), open)
	t.Cleanup(func() {
		go func() {
			for range m.Responses() {
			}
		}()
		_ = m.Close()
	})
	return m
}

func receive(t *testing.T, m *Mirror) Response {
	t.Helper()
	select {
	case resp, ok := <-m.Responses():
		require.True(t, ok, "responses closed")
		return resp
	case <-time.After(receiveTimeout):
		t.Fatal("timed out waiting for a response")
		return Response{}
	}
}

func sampleWorkbook(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, workbook.Write(testutil.NewSampleOrg(), &buf))
	return buf.Bytes()
}

func TestMirror_FirstTreeIsSeeded(t *testing.T) {
	m := newTestMirror(t, memoryOpener())

	m.Post(GetTreeRequest())
	resp := receive(t, m)
	assert.Equal(t, ResponseTree, resp.Type)
	require.NotNil(t, resp.Tree)
	assert.Equal(t, "Division of Specialized Support Services", resp.Tree.Name)
}

func TestMirror_QueuesUntilReadyAndKeepsOrder(t *testing.T) {
	release := make(chan struct{})
	m := newTestMirror(t, gatedOpener(release))

	buf := sampleWorkbook(t)
	posted := make(chan struct{})
	go func() {
		m.Post(OpenRequest(buf))
		m.Post(MoveRequest("Budget", "Operations", false))
		m.Post(SearchRequest(SearchOffices, "budget"))
		m.Post(NewRequest())
		m.Post(SearchRequest(SearchOffices, "budget"))
		close(posted)
	}()

	select {
	case <-posted:
	case <-time.After(receiveTimeout):
		t.Fatal("Post blocked while the store was opening")
	}

	close(release)

	resp := receive(t, m)
	require.Equal(t, ResponseTree, resp.Type)
	assert.True(t, domain.EqualUnordered(testutil.NewSampleOrg(), resp.Tree))

	resp = receive(t, m)
	require.Equal(t, ResponseOffices, resp.Type)
	assert.Equal(t, []repository.OfficeResult{{Name: "Budget", Parent: "Operations"}}, resp.Offices)

	resp = receive(t, m)
	require.Equal(t, ResponseTree, resp.Type)
	assert.Empty(t, resp.Tree.Children)

	resp = receive(t, m)
	require.Equal(t, ResponseOffices, resp.Type)
	assert.Empty(t, resp.Offices)
}

func TestMirror_PostDoesNotBlockOnBusyWorker(t *testing.T) {
	release := make(chan struct{})
	m := newTestMirror(t, gatedOpener(release))
	defer close(release)

	start := time.Now()
	for i := 0; i < 1000; i++ {
		m.Post(SwapRequest("a", "b"))
	}
	assert.Less(t, time.Since(start), receiveTimeout)
}

func TestMirror_OpenRejections(t *testing.T) {
	m := newTestMirror(t, memoryOpener())

	m.Post(OpenRequest([]byte("garbage")))
	resp := receive(t, m)
	assert.Equal(t, ResponseOpenError, resp.Type)
	assert.Contains(t, resp.Message, "Could not open workbook")

	bad := testutil.NewTestTree("Root", nil, testutil.WithPosition("Root", "Clerk", -1, false))
	var buf bytes.Buffer
	require.NoError(t, workbook.Write(bad, &buf))

	m.Post(OpenRequest(buf.Bytes()))
	resp = receive(t, m)
	require.Equal(t, ResponseOpenMissingData, resp.Type)
	require.NotNil(t, resp.Missing)
	assert.Empty(t, resp.Missing.Hierarchy)
	require.Len(t, resp.Missing.Positions, 1)
	assert.Equal(t, 2, resp.Missing.Positions[0].Row)

	// Nothing was imported.
	m.Post(GetTreeRequest())
	resp = receive(t, m)
	assert.Equal(t, ResponseTree, resp.Type)
	assert.Equal(t, 1, resp.Tree.Count())
}

func TestMirror_SearchPositions(t *testing.T) {
	m := newTestMirror(t, memoryOpener())
	m.Post(OpenRequest(sampleWorkbook(t)))
	receive(t, m)

	m.Post(SearchRequest(SearchPositions, "speech"))
	resp := receive(t, m)
	require.Equal(t, ResponsePositions, resp.Type)
	assert.Equal(t, []repository.PositionResult{{Title: "Speech Pathologist", FTE: 0.8, Office: "Speech", IdeaFunded: true}}, resp.Positions)
}

func TestMirror_InvalidRequestsAreDropped(t *testing.T) {
	m := newTestMirror(t, memoryOpener())
	invalidBefore := promtestutil.ToFloat64(getMetrics().requestsTotal.WithLabelValues("rename", resultInvalid))

	m.Post(Request{Type: "rename"})
	m.Post(SearchRequest("people", "x"))
	m.Post(GetTreeRequest())

	resp := receive(t, m)
	assert.Equal(t, ResponseTree, resp.Type, "invalid requests produce no response")
	assert.Equal(t, invalidBefore+1, promtestutil.ToFloat64(getMetrics().requestsTotal.WithLabelValues("rename", resultInvalid)))
}

func TestMirror_FailedMoveAnswersWithError(t *testing.T) {
	m := newTestMirror(t, memoryOpener())
	m.Post(OpenRequest(sampleWorkbook(t)))
	receive(t, m)

	errorsBefore := promtestutil.ToFloat64(getMetrics().requestsTotal.WithLabelValues(string(RequestMove), resultError))

	m.Post(MoveRequest("Nowhere", "Finance", false))
	resp := receive(t, m)
	assert.Equal(t, ResponseError, resp.Type)
	assert.Contains(t, resp.Message, "Nowhere")
	assert.Equal(t, errorsBefore+1, promtestutil.ToFloat64(getMetrics().requestsTotal.WithLabelValues(string(RequestMove), resultError)))
}

func TestMirror_StartupFailure(t *testing.T) {
	release := make(chan struct{})
	m := New(context.Background(), func(ctx context.Context) (*Backend, error) {
		<-release
		return nil, errors.New("disk unavailable")
	})

	droppedBefore := promtestutil.ToFloat64(getMetrics().requestsTotal.WithLabelValues(string(RequestGetTree), resultDropped))
	m.Post(GetTreeRequest())
	m.Post(GetTreeRequest())
	close(release)

	resp := receive(t, m)
	assert.Equal(t, ResponseError, resp.Type)
	assert.Contains(t, resp.Message, "disk unavailable")

	_, ok := <-m.Responses()
	assert.False(t, ok, "responses close after a failed startup")
	assert.Equal(t, droppedBefore+2, promtestutil.ToFloat64(getMetrics().requestsTotal.WithLabelValues(string(RequestGetTree), resultDropped)))

	m.Post(GetTreeRequest())
	require.NoError(t, m.Close())
}

func TestMirror_CloseDrainsQueue(t *testing.T) {
	release := make(chan struct{})
	m := New(context.Background(), gatedOpener(release))

	m.Post(GetTreeRequest())
	m.Post(GetTreeRequest())

	closed := make(chan struct{})
	go func() {
		_ = m.Close()
		close(closed)
	}()
	close(release)

	var got []Response
	for resp := range m.Responses() {
		got = append(got, resp)
	}
	<-closed
	assert.Len(t, got, 2)
	assert.Equal(t, float64(0), promtestutil.ToFloat64(getMetrics().ready))
}

func TestMirror_ContextCancelStopsWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctx, memoryOpener())

	m.Post(GetTreeRequest())
	receive(t, m)
	cancel()

	select {
	case _, ok := <-m.Responses():
		assert.False(t, ok)
	case <-time.After(receiveTimeout):
		t.Fatal("worker kept running after cancel")
	}
	require.NoError(t, m.Close())
}
