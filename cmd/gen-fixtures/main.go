package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/outliner/internal/cli"
	"github.com/aretw0/outliner/pkg/domain"
)

func main() {
	target := "examples/fixtures.yaml"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		panic(err)
	}
	fmt.Printf("Generating fixtures in: %s\n", target)

	lake := domain.FeatureID{Type: domain.FeatureTypeArea, Namespace: "openstreetmap.org/way", Value: 4256246}
	park := domain.FeatureID{Type: domain.FeatureTypeArea, Namespace: "openstreetmap.org/way", Value: 28898720}

	collections := domain.NewResponse(domain.NewSubstack(
		&domain.HeaderLine{Title: domain.TextAtom("Collections")},
		&domain.ValueLine{Atom: domain.TextAtom("Lakes"), ClickExpression: expression("lakes")},
		&domain.ValueLine{Atom: domain.TextAtom("Parks"), ClickExpression: expression("parks")},
	))

	lakes := domain.NewResponse(
		domain.NewSubstack(
			&domain.HeaderLine{Title: domain.TextAtom("Lakes"), Close: true},
			&domain.ExpressionLine{Expression: "lakes"},
		),
		domain.NewSubstack(
			&domain.ValueLine{Atom: domain.AtomOf(&domain.LabelledIcon{Icon: "water", Label: "Highgate Ponds"})},
			&domain.TagsLine{Tags: []*domain.Tag{
				{Prefix: "#", Key: "natural", Value: "water"},
				{Prefix: "#", Key: "water", Value: "pond", ClickExpression: expression("ponds")},
			}},
			&domain.HistogramBarLine{Range: domain.TextAtom("0-1 ha"), Value: 3, Total: 8},
			&domain.HistogramBarLine{Range: domain.TextAtom("1-5 ha"), Value: 5, Total: 8, Index: 1},
			&domain.ValueLine{Atom: domain.AtomOf(domain.DownloadAtom("GeoJSON"))},
			&domain.ShellLine{Functions: []string{"filter", "find", "to-geojson"}},
		),
	)
	lakes.Proto.Highlighted = &domain.FeatureIDs{}
	lakes.Proto.Highlighted.Add(lake)
	lakes.Proto.MapCenter = &domain.LatLng{LatE7: 515661000, LngE7: -1580000}
	lakes.GeoJSON = json.RawMessage(`{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","geometry":{"type":"Point","coordinates":[-0.158,51.5661]},"properties":{"name":"Highgate Ponds"}}]}`)

	parks := domain.NewResponse(domain.NewSubstack(
		&domain.HeaderLine{Title: domain.TextAtom("Parks"), Close: true},
		&domain.ChoiceLine{Label: domain.TextAtom("Show"), Chips: []*domain.Atom{domain.TextAtom("All"), domain.TextAtom("Open now")}},
		&domain.ValuePairLine{
			First:  &domain.ClickableAtom{Atom: domain.TextAtom("Hampstead Heath"), ClickExpression: expression("heath")},
			Second: &domain.ClickableAtom{Atom: domain.TextAtom("320 ha")},
		},
	))
	parks.Proto.Highlighted = &domain.FeatureIDs{}
	parks.Proto.Highlighted.Add(park)
	parks.Proto.QueryLayers = []string{"find [leisure=park]"}

	open := 0
	fixtures := cli.Fixtures{
		Startup: &domain.StartupResponse{
			Docked:        []*domain.Response{collections},
			OpenDockIndex: &open,
			MapCenter:     &domain.LatLng{LatE7: 515361156, LngE7: -1255161},
			Expression:    "lakes",
		},
		Expressions: map[string]*domain.Response{
			"collections": collections,
			"lakes":       lakes,
			"parks":       parks,
		},
	}

	// Protocol types only carry JSON tags: go through JSON to keep field names.
	data, err := json.Marshal(fixtures)
	if err != nil {
		panic(err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		panic(err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		panic(err)
	}
	fmt.Println("Done.")
}

func expression(name string) domain.Expression {
	b, _ := json.Marshal(map[string]string{"call": name})
	return domain.Expression(b)
}
