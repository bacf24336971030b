package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/outliner/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.BlobStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks the values of JSON object keys
// matching any of the patterns, at any depth, before an export is stored. Feature
// properties such as "owner_email" are the usual target. Blobs that are not JSON
// are stored as they are.
func NewRedactMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.BlobStore) ports.BlobStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactMiddleware) Create(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(m.patterns) == 0 || !isJSON(contentType) {
		return m.next.Create(ctx, data, contentType)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return m.next.Create(ctx, data, contentType)
	}
	if !mask(doc, m.patterns) {
		return m.next.Create(ctx, data, contentType)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to marshal redacted blob: %w", err)
	}
	return m.next.Create(ctx, bytes.TrimSuffix(buf.Bytes(), []byte("\n")), contentType)
}

func (m *redactMiddleware) Open(ctx context.Context, ref string) (*ports.Blob, error) {
	return m.next.Open(ctx, ref)
}

func (m *redactMiddleware) Revoke(ctx context.Context, ref string) error {
	return m.next.Revoke(ctx, ref)
}

func isJSON(contentType string) bool {
	return strings.HasSuffix(strings.SplitN(contentType, ";", 2)[0], "json")
}

// mask redacts v in place and reports whether anything changed.
func mask(v any, patterns []*regexp.Regexp) bool {
	changed := false
	switch t := v.(type) {
	case map[string]any:
		for k, sub := range t {
			if matchesAny(k, patterns) {
				t[k] = Mask
				changed = true
				continue
			}
			changed = mask(sub, patterns) || changed
		}
	case []any:
		for _, sub := range t {
			changed = mask(sub, patterns) || changed
		}
	}
	return changed
}

func matchesAny(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
