package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/layers"
	"github.com/aretw0/outliner/pkg/ports"
)

func TestBlobStore_Contract(t *testing.T) {
	ports.RunBlobStoreContract(t, NewBlobStore())
}

func TestHistoryStore_Contract(t *testing.T) {
	ports.RunHistoryStoreContract(t, NewHistoryStore())
}

func TestBlobStore_CopiesData(t *testing.T) {
	s := NewBlobStore()
	data := []byte("abc")
	ref, err := s.Create(context.Background(), data, "text/plain")
	require.NoError(t, err)

	data[0] = 'x'
	blob, err := s.Open(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(blob.Data))
	assert.Equal(t, 1, s.Len())
}

func TestMap_RecordsLayers(t *testing.T) {
	m := NewMap()
	a := layers.NewQuery("a", layers.DefaultTileURL, nil)
	b := layers.NewQuery("b", layers.DefaultTileURL, nil)

	m.AddLayer(a)
	m.AddLayer(b)
	m.RemoveLayer(a)
	require.Len(t, m.Layers(), 1)
	assert.Equal(t, b.ID(), m.Layers()[0].ID())

	m.Animate(domain.LatLng{LatE7: 515361156, LngE7: -1255161})
	assert.Equal(t, int64(515361156), m.Center().LatE7)
}

func TestEvaluator(t *testing.T) {
	ctx := context.Background()
	r := domain.NewResponse(domain.NewSubstack(&domain.ValueLine{Atom: domain.TextAtom("ok")}))
	e := NewEvaluator().
		Handle("all-areas", r).
		HandleNode(domain.Expression(`{"id":1}`), r)

	got, err := e.Evaluate(ctx, domain.EvaluationRequest{Expression: "all-areas"})
	require.NoError(t, err)
	assert.Same(t, r, got)

	got, err = e.Evaluate(ctx, domain.EvaluationRequest{Node: domain.Expression(`{"id":1}`)})
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = e.Evaluate(ctx, domain.EvaluationRequest{Expression: "nope"})
	assert.ErrorIs(t, err, domain.ErrEvaluationRejected)

	raw, _ := json.Marshal(e.Requests()[0])
	assert.JSONEq(t, `{"expression":"all-areas"}`, string(raw))
}
