package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/outliner/internal/runtime"
	"github.com/aretw0/outliner/pkg/adapters/memory"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/view"
)

func draggable(expression string) *domain.Response {
	return domain.NewResponse(domain.NewSubstack(&domain.ExpressionLine{Expression: expression}))
}

func TestUI_DragMovesStackByPointerOffset(t *testing.T) {
	ctx := context.Background()
	u := runtime.New(memory.NewEvaluator())
	defer u.Close()

	rr, err := u.Bind(ctx, "s", draggable("find [#amenity]"))
	require.NoError(t, err)
	stack := rr.Root().SetPosition(view.Point{X: 10, Y: 60})
	body := u.Document().Root()

	down := stack.Select("line-expression").Dispatch(&view.Event{Type: view.EventPointerDown, Pointer: view.Point{X: 100, Y: 100}})
	assert.True(t, down.DefaultPrevented())
	assert.Equal(t, runtime.DragDragging, u.Drag().State())
	assert.True(t, stack.Classed("dragging"))

	body.Dispatch(&view.Event{Type: view.EventPointerMove, Pointer: view.Point{X: 140, Y: 130}})
	assert.Equal(t, view.Point{X: 50, Y: 90}, stack.Position())

	body.Dispatch(&view.Event{Type: view.EventPointerUp, Pointer: view.Point{X: 140, Y: 130}})
	assert.Equal(t, runtime.DragIdle, u.Drag().State())
	assert.False(t, stack.Classed("dragging"))

	moved := body.Dispatch(&view.Event{Type: view.EventPointerMove, Pointer: view.Point{X: 200, Y: 200}})
	assert.False(t, moved.DefaultPrevented())
	assert.Equal(t, view.Point{X: 50, Y: 90}, stack.Position())
}

func TestUI_DraggingFeaturedStackDetachesIt(t *testing.T) {
	ctx := context.Background()
	u := runtime.New(memory.NewEvaluator())
	defer u.Close()

	rr, err := u.RenderFeatured(ctx, draggable("all-areas"))
	require.NoError(t, err)
	stack := rr.Root()

	stack.Select("line-expression").Dispatch(&view.Event{Type: view.EventPointerDown, Pointer: view.Point{X: 20, Y: 110}})
	u.Document().Root().Dispatch(&view.Event{Type: view.EventPointerMove, Pointer: view.Point{X: 30, Y: 110}})

	assert.False(t, stack.Classed("stack-featured"))
	assert.Equal(t, "stack-1", rr.Target())
	assert.Equal(t, []string{"stack-1"}, u.Targets())
	assert.Equal(t, view.Point{X: 20, Y: 100}, stack.Position())

	next, err := u.RenderFeatured(ctx, draggable("next"))
	require.NoError(t, err)
	assert.NotSame(t, stack, next.Root())
	assert.Equal(t, runtime.StackOrigin, next.Root().Position())
	assert.Equal(t, []string{"stack-1", runtime.Featured}, u.Targets())
}

func TestDragController_SecondPressReplacesSession(t *testing.T) {
	doc := view.NewDocument()
	a := doc.Root().Append("div").SetClass("stack")
	b := doc.Root().Append("div").SetClass("stack").SetPosition(view.Point{X: 5, Y: 5})
	d := runtime.NewDragController(nil, nil)

	d.Start(a, view.Point{X: 0, Y: 0})
	d.Start(b, view.Point{X: 10, Y: 10})
	assert.False(t, a.Classed("dragging"))
	assert.True(t, d.Dragging(b))

	assert.True(t, d.Move(view.Point{X: 15, Y: 20}))
	assert.Equal(t, view.Point{}, a.Position())
	assert.Equal(t, view.Point{X: 10, Y: 15}, b.Position())
	assert.True(t, d.End())
	assert.False(t, d.End())
	assert.Equal(t, "idle", d.State().String())
}

func TestUI_RemovingDraggedStackEndsDrag(t *testing.T) {
	ctx := context.Background()
	u := runtime.New(memory.NewEvaluator())
	defer u.Close()

	rr, err := u.Bind(ctx, "s", draggable("x"))
	require.NoError(t, err)
	rr.Root().Select("line-expression").Dispatch(&view.Event{Type: view.EventPointerDown})
	require.NoError(t, u.Remove(ctx, "s"))
	assert.Equal(t, runtime.DragIdle, u.Drag().State())
}
