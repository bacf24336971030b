package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/outliner/pkg/adapters/memory"
	"github.com/aretw0/outliner/pkg/domain"
)

// Fixtures are canned evaluation results, used to render and serve without an
// evaluation server.
type Fixtures struct {
	Startup     *domain.StartupResponse     `json:"startup,omitempty"`
	Expressions map[string]*domain.Response `json:"expressions,omitempty"`
}

// LoadFixtures reads fixtures from a YAML or JSON file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML or JSON fixtures. The document is converted to JSON
// first so that the protocol types keep a single encoding.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := decodeYAMLAsJSON(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// Evaluator answers the fixture expressions.
func (f *Fixtures) Evaluator() *memory.Evaluator {
	e := memory.NewEvaluator()
	for expression, r := range f.Expressions {
		e.Handle(expression, r)
	}
	return e
}

// readResponse decodes a single response, in YAML or JSON, from r.
func readResponse(r io.Reader) (*domain.Response, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp domain.Response
	if err := decodeYAMLAsJSON(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp, nil
}

func decodeYAMLAsJSON(data []byte, v any) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
