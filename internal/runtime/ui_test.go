package runtime_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/outliner/internal/runtime"
	"github.com/aretw0/outliner/pkg/adapters/memory"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/render"
	"github.com/aretw0/outliner/pkg/view"
)

func highlighted(ids ...domain.FeatureID) *domain.Response {
	r := domain.NewResponse(domain.NewSubstack(&domain.ValueLine{Atom: domain.TextAtom("feature")}))
	r.Proto.Highlighted = &domain.FeatureIDs{}
	for _, id := range ids {
		r.Proto.Highlighted.Add(id)
	}
	return r
}

func text(s string) *domain.Response {
	return domain.NewResponse(domain.NewSubstack(&domain.ValueLine{Atom: domain.TextAtom(s)}))
}

var (
	point1 = domain.FeatureID{Type: domain.FeatureTypePoint, Namespace: "ns", Value: 1}
	area2  = domain.FeatureID{Type: domain.FeatureTypeArea, Namespace: "ns", Value: 2}
)

func TestUI_LedgerCountsLiveClaims(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMap()
	u := runtime.New(memory.NewEvaluator(), runtime.WithMap(m))
	defer u.Close()

	_, err := u.Bind(ctx, "a", highlighted(point1))
	require.NoError(t, err)
	_, err = u.Bind(ctx, "b", highlighted(point1, area2))
	require.NoError(t, err)

	want := map[domain.HighlightKey]int{point1.Key(): 2, area2.Key(): 1}
	if diff := cmp.Diff(want, u.Ledger().Snapshot()); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, u.Remove(ctx, "a"))
	want = map[domain.HighlightKey]int{point1.Key(): 1, area2.Key(): 1}
	if diff := cmp.Diff(want, u.Ledger().Snapshot()); diff != "" {
		t.Errorf("ledger mismatch after remove (-want +got):\n%s", diff)
	}

	_, err = u.Bind(ctx, "b", text("plain"))
	require.NoError(t, err)
	assert.Equal(t, 0, u.Ledger().Len())
	assert.Equal(t, 4, m.HighlightRedraws(), "one redraw per change in highlights")
}

func TestUI_DuplicateHighlightCountsOnce(t *testing.T) {
	ctx := context.Background()
	u := runtime.New(memory.NewEvaluator(), runtime.WithMap(memory.NewMap()))
	defer u.Close()

	r := highlighted(area2)
	r.Proto.Highlighted.Namespaces = append(r.Proto.Highlighted.Namespaces, "/point/ns", "/point/ns")
	r.Proto.Highlighted.IDs = append(r.Proto.Highlighted.IDs,
		&domain.IDs{IDs: []domain.ID{1}},
		&domain.IDs{IDs: []domain.ID{1, 1}},
	)

	_, err := u.Bind(ctx, "a", r)
	require.NoError(t, err)
	want := map[domain.HighlightKey]int{point1.Key(): 1, area2.Key(): 1}
	if diff := cmp.Diff(want, u.Ledger().Snapshot()); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, u.Remove(ctx, "a"))
	assert.Equal(t, 0, u.Ledger().Len())
}

func TestUI_RebindKeepsContainersOfSameRenderer(t *testing.T) {
	ctx := context.Background()
	entered := map[string]int{}
	counting := func(class string) *render.Func {
		return &render.Func{
			Class: class,
			EnterFunc: func(n *view.Node) {
				entered[class]++
				n.Append("span").SetClass("body")
			},
			UpdateFunc: func(n *view.Node, item domain.Variant, _ render.Context) error {
				switch v := item.(type) {
				case *domain.ValueLine:
					n.Select("body").SetText(*v.Atom.Value)
				case *domain.QuestionLine:
					n.Select("body").SetText(v.Question)
				}
				return nil
			},
		}
	}
	reg := render.NewRegistry()
	reg.Register(domain.KindLine, domain.LineValue, counting("line-value"))
	reg.Register(domain.KindLine, domain.LineQuestion, counting("line-question"))

	u := runtime.New(memory.NewEvaluator(), runtime.WithRegistry(reg))
	defer u.Close()

	two := func(a, b string) *domain.Response {
		return domain.NewResponse(domain.NewSubstack(
			&domain.ValueLine{Atom: domain.TextAtom(a)},
			&domain.ValueLine{Atom: domain.TextAtom(b)},
		))
	}
	rr, err := u.Bind(ctx, "s", two("a", "b"))
	require.NoError(t, err)
	lines := rr.Root().SelectAll(domain.KindLine)
	require.Len(t, lines, 2)
	firstBody := lines[0].Select("body")

	rr, err = u.Bind(ctx, "s", two("c", "d"))
	require.NoError(t, err)
	again := rr.Root().SelectAll(domain.KindLine)
	assert.Same(t, lines[0], again[0])
	assert.Same(t, firstBody, again[0].Select("body"))
	assert.Equal(t, "c", again[0].Select("body").Text())
	assert.Equal(t, 2, entered["line-value"])

	rr, err = u.Bind(ctx, "s", domain.NewResponse(domain.NewSubstack(
		&domain.QuestionLine{Question: "which?"},
		&domain.ValueLine{Atom: domain.TextAtom("e")},
	)))
	require.NoError(t, err)
	again = rr.Root().SelectAll(domain.KindLine)
	assert.Same(t, lines[0], again[0], "container kept by position")
	assert.False(t, firstBody.Live(), "content rebuilt")
	assert.Equal(t, "line line-question", again[0].Class())
	assert.Equal(t, "which?", again[0].Select("body").Text())
	assert.Equal(t, 1, entered["line-question"])
	assert.Equal(t, 2, entered["line-value"])
}

func TestUI_BindIsIdempotent(t *testing.T) {
	ctx := context.Background()
	u := runtime.New(memory.NewEvaluator())
	defer u.Close()

	r := domain.NewResponse(
		domain.NewSubstack(
			&domain.HeaderLine{Title: domain.TextAtom("Collection"), Close: true},
			&domain.TagsLine{Tags: []*domain.Tag{{Key: "highway", Value: "primary"}}},
		),
		&domain.Substack{Collapsable: true, Lines: []*domain.Line{domain.LineOf(&domain.ShellLine{Functions: []string{"find"}})}},
	)
	rr, err := u.Bind(ctx, "s", r)
	require.NoError(t, err)
	before := view.String(rr.Root())
	size := u.Document().Len()

	rr, err = u.Bind(ctx, "s", r)
	require.NoError(t, err)
	assert.Equal(t, before, view.String(rr.Root()))
	assert.Equal(t, size, u.Document().Len())
}

func TestUI_MalformedLineDegrades(t *testing.T) {
	ctx := context.Background()
	var failed []string
	u := runtime.New(memory.NewEvaluator(), runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnRenderFail: func(_ context.Context, e *domain.RenderEvent) { failed = append(failed, e.Kind) },
	}))
	defer u.Close()

	r := domain.NewResponse(&domain.Substack{Lines: []*domain.Line{
		domain.LineOf(&domain.QuestionLine{Question: "before"}),
		{},
		domain.LineOf(&domain.QuestionLine{Question: "after"}),
	}})
	rr, err := u.Bind(ctx, "s", r)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProtocolViolation)

	lines := rr.Root().SelectAll(domain.KindLine)
	require.Len(t, lines, 3)
	assert.Equal(t, "before", lines[0].Text())
	assert.True(t, lines[1].Classed("line-invalid"))
	assert.Equal(t, "after", lines[2].Text())
	assert.Equal(t, []string{domain.KindLine}, failed)

	rr, err = u.Bind(ctx, "s", domain.NewResponse(domain.NewSubstack(
		&domain.QuestionLine{Question: "before"},
		&domain.QuestionLine{Question: "fixed"},
	)))
	require.NoError(t, err)
	lines = rr.Root().SelectAll(domain.KindLine)
	assert.Equal(t, "line line-question", lines[1].Class())
}

func TestUI_RemoveUnknownTarget(t *testing.T) {
	u := runtime.New(memory.NewEvaluator())
	defer u.Close()
	assert.ErrorIs(t, u.Remove(context.Background(), "missing"), domain.ErrTargetNotFound)
}

func TestUI_HeaderCloseRemovesTarget(t *testing.T) {
	ctx := context.Background()
	u := runtime.New(memory.NewEvaluator())
	defer u.Close()

	rr, err := u.Bind(ctx, "s", highlighted(point1))
	require.NoError(t, err)
	_, err = u.Bind(ctx, "s", domain.NewResponse(domain.NewSubstack(
		&domain.HeaderLine{Title: domain.TextAtom("Feature"), Close: true},
	)))
	require.NoError(t, err)
	assert.True(t, rr.Removed())

	root, ok := u.Stack("s")
	require.True(t, ok)
	root.Select("close").Dispatch(&view.Event{Type: view.EventClick})

	_, ok = u.Stack("s")
	assert.False(t, ok)
	assert.False(t, root.Live())
	assert.Empty(t, u.Live())
}

func TestUI_ExportRevokedOnRebind(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	m := memory.NewMap()
	u := runtime.New(memory.NewEvaluator(), runtime.WithMap(m), runtime.WithBlobStore(blobs, "/blobs/"))
	defer u.Close()

	r := domain.NewResponse(domain.NewSubstack(&domain.ValueLine{Atom: domain.AtomOf(domain.DownloadAtom("download"))}))
	r.GeoJSON = []byte(`{"type":"Point","coordinates":[-0.12,51.53]}`)
	r.Proto.QueryLayers = []string{"find [#amenity]"}

	rr, err := u.Bind(ctx, "s", r)
	require.NoError(t, err)
	require.NotEmpty(t, rr.BlobRef())
	assert.Equal(t, "/blobs/"+rr.BlobRef(), rr.ExportURL())
	assert.Equal(t, rr.ExportURL(), rr.Root().SelectElement("a").Attr("href"))
	assert.Len(t, m.Layers(), 2)

	blob, err := blobs.Open(ctx, rr.BlobRef())
	require.NoError(t, err)
	assert.Contains(t, string(blob.Data), "\n  \"type\": \"Point\"")

	ref := rr.BlobRef()
	_, err = u.Bind(ctx, "s", text("plain"))
	require.NoError(t, err)
	_, err = blobs.Open(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	assert.Empty(t, m.Layers())
	assert.Equal(t, 0, blobs.Len())
}

func TestUI_MalformedGeoJSONSkipped(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMap()
	u := runtime.New(memory.NewEvaluator(), runtime.WithMap(m), runtime.WithBlobStore(memory.NewBlobStore(), "/blobs/"))
	defer u.Close()

	r := text("broken")
	r.GeoJSON = []byte(`{"type":"Nonsense"}`)
	rr, err := u.Bind(ctx, "s", r)
	require.NoError(t, err)
	assert.Empty(t, rr.Layers())
	assert.Empty(t, rr.ExportURL())
	assert.Equal(t, "broken", rr.Root().Select("atom-value").Text())
}

func TestUI_RenderDockOpensOneStack(t *testing.T) {
	ctx := context.Background()
	u := runtime.New(memory.NewEvaluator())
	defer u.Close()

	require.NoError(t, u.RenderDock(ctx, []*domain.Response{text("one"), text("two"), text("three")}))
	first, _ := u.Stack(runtime.DockTarget(0))
	second, _ := u.Stack(runtime.DockTarget(1))
	assert.True(t, first.Classed("closed"))
	assert.True(t, second.Classed("closed"))

	second.Select("atom-value").Dispatch(&view.Event{Type: view.EventClick})
	assert.True(t, first.Classed("closed"))
	assert.False(t, second.Classed("closed"))

	first.Dispatch(&view.Event{Type: view.EventClick})
	assert.False(t, first.Classed("closed"))
	assert.True(t, second.Classed("closed"))

	require.NoError(t, u.OpenDock(1))
	assert.True(t, first.Classed("closed"))
	assert.False(t, second.Classed("closed"))
	assert.ErrorIs(t, u.OpenDock(7), domain.ErrTargetNotFound)

	require.NoError(t, u.RenderDock(ctx, []*domain.Response{text("only")}))
	assert.Equal(t, []string{runtime.DockTarget(0)}, u.Targets())
	assert.False(t, second.Live())
}

func TestUI_RenderFeaturedMovesMap(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMap()
	u := runtime.New(memory.NewEvaluator(), runtime.WithMap(m))
	defer u.Close()

	r := text("Camden")
	r.Proto.MapCenter = &domain.LatLng{LatE7: 515361156, LngE7: -1255161}
	rr, err := u.RenderFeatured(ctx, r)
	require.NoError(t, err)

	assert.Equal(t, runtime.Featured, rr.Target())
	assert.Equal(t, runtime.StackOrigin, rr.Root().Position())
	assert.True(t, rr.Root().Classed("stack-featured"))
	require.NotNil(t, m.Center())
	assert.Equal(t, *r.Proto.MapCenter, *m.Center())
}
