package outliner_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/outliner"
	"github.com/aretw0/outliner/internal/runtime"
	httpAdapter "github.com/aretw0/outliner/pkg/adapters/http"
	"github.com/aretw0/outliner/pkg/adapters/memory"
	"github.com/aretw0/outliner/pkg/domain"
)

func text(s string) *domain.Response {
	return domain.NewResponse(domain.NewSubstack(&domain.ValueLine{Atom: domain.TextAtom(s)}))
}

func TestNew_RequiresEvaluator(t *testing.T) {
	_, err := outliner.New(context.Background())
	assert.Error(t, err)
}

func TestNew_LoadsConsoleHistory(t *testing.T) {
	ctx := context.Background()
	history := memory.NewHistoryStore()
	require.NoError(t, history.Append(ctx, runtime.ConsoleHistory, "collections"))

	o, err := outliner.New(ctx, outliner.WithEvaluator(memory.NewEvaluator()), outliner.WithHistoryStore(history))
	require.NoError(t, err)
	defer o.Close()

	assert.Equal(t, []string{"collections"}, o.Console().Shell().History.Entries())
}

func TestStart_AppliesSessionPayload(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMap()
	evaluator := memory.NewEvaluator().Handle("collections", text("Lakes"))
	o, err := outliner.New(ctx, outliner.WithEvaluator(evaluator), outliner.WithMap(m))
	require.NoError(t, err)
	defer o.Close()

	open := 1
	root := domain.FeatureID{Type: domain.FeatureTypeArea, Namespace: "ns", Value: 7}
	center := &domain.LatLng{LatE7: 515361156, LngE7: -1255161}
	require.NoError(t, o.Start(ctx, &domain.StartupResponse{
		Docked:        []*domain.Response{text("one"), text("two")},
		OpenDockIndex: &open,
		MapCenter:     center,
		Root:          &root,
		Expression:    "collections",
	}))

	first, ok := o.UI().Stack(runtime.DockTarget(0))
	require.True(t, ok)
	second, ok := o.UI().Stack(runtime.DockTarget(1))
	require.True(t, ok)
	assert.True(t, first.Classed("closed"))
	assert.False(t, second.Classed("closed"))
	assert.Equal(t, center, m.Center())

	rr, err := o.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, runtime.Featured, rr.Target())
	requests := evaluator.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, &root, requests[0].Root)
}

func TestStart_ShowsStartupError(t *testing.T) {
	ctx := context.Background()
	evaluator := memory.NewEvaluator()
	o, err := outliner.New(ctx, outliner.WithEvaluator(evaluator))
	require.NoError(t, err)
	defer o.Close()

	require.NoError(t, o.Start(ctx, &domain.StartupResponse{Error: "no such root", Expression: "collections"}))

	stack, ok := o.UI().Stack(runtime.Featured)
	require.True(t, ok)
	assert.Equal(t, "no such root", stack.Select("line-error").Text())
	assert.Empty(t, evaluator.Requests())
}

func TestStart_BadDockIndex(t *testing.T) {
	ctx := context.Background()
	o, err := outliner.New(ctx, outliner.WithEvaluator(memory.NewEvaluator()))
	require.NoError(t, err)
	defer o.Close()

	open := 3
	err = o.Start(ctx, &domain.StartupResponse{Docked: []*domain.Response{text("one")}, OpenDockIndex: &open})
	assert.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestBoot_FetchesStartupOverHTTP(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(httpAdapter.NewHandler(
		httpAdapter.WithEvaluator(memory.NewEvaluator().Handle("collections", text("Lakes"))),
		httpAdapter.WithStartup(&domain.StartupResponse{Expression: "collections"}),
	))
	defer srv.Close()

	o, err := outliner.New(ctx, outliner.WithEvaluatorURL(srv.URL))
	require.NoError(t, err)
	defer o.Close()

	s, err := o.Boot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "collections", s.Expression)
	rr, err := o.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lakes", rr.Root().Select("atom-value").Text())
}

func TestBoot_WithoutStartupSource(t *testing.T) {
	ctx := context.Background()
	o, err := outliner.New(ctx, outliner.WithEvaluator(memory.NewEvaluator()))
	require.NoError(t, err)
	defer o.Close()

	s, err := o.Boot(ctx)
	assert.NoError(t, err)
	assert.Nil(t, s)
	assert.Empty(t, o.UI().Targets())
}

func TestOutliner_RenderAndRemoveReleaseHighlights(t *testing.T) {
	ctx := context.Background()
	o, err := outliner.New(ctx, outliner.WithEvaluator(memory.NewEvaluator()))
	require.NoError(t, err)
	defer o.Close()

	r := text("feature")
	r.Proto.Highlighted = &domain.FeatureIDs{}
	r.Proto.Highlighted.Add(domain.FeatureID{Type: domain.FeatureTypePoint, Namespace: "ns", Value: 1})

	_, err = o.Render(ctx, "side", r)
	require.NoError(t, err)
	assert.Equal(t, 1, o.Ledger().Len())

	require.NoError(t, o.Remove(ctx, "side"))
	assert.Equal(t, 0, o.Ledger().Len())
}

func TestOutliner_Dump(t *testing.T) {
	ctx := context.Background()
	o, err := outliner.New(ctx, outliner.WithEvaluator(memory.NewEvaluator()))
	require.NoError(t, err)
	defer o.Close()

	_, err = o.Featured(ctx, text("Camden"))
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, o.Dump(&b))
	assert.Contains(t, b.String(), `"Camden"`)
	assert.True(t, strings.HasPrefix(b.String(), "body\n"))
}

func TestRunner_PrintsFeaturedStack(t *testing.T) {
	ctx := context.Background()
	evaluator := memory.NewEvaluator().Handle("lakes", text("Lakes"))
	o, err := outliner.New(ctx, outliner.WithEvaluator(evaluator))
	require.NoError(t, err)
	defer o.Close()

	var out bytes.Buffer
	runner := &outliner.Runner{
		Input:  strings.NewReader("lakes\nunknown\nexit\nlakes\n"),
		Output: &out,
		Renderer: func(s string) (string, error) {
			return strings.ToUpper(s), nil
		},
	}
	require.NoError(t, runner.Run(ctx, o))

	got := out.String()
	assert.Contains(t, got, "- LAKES")
	assert.Contains(t, got, "UNKNOWN EXPRESSION")
	assert.True(t, strings.HasSuffix(got, "Bye!\n"))
	assert.Len(t, evaluator.Requests(), 2, "input after exit is not read")
}

func TestRunner_RequiresIO(t *testing.T) {
	o, err := outliner.New(context.Background(), outliner.WithEvaluator(memory.NewEvaluator()))
	require.NoError(t, err)
	defer o.Close()

	assert.Error(t, outliner.NewRunner().Run(context.Background(), o))
}
