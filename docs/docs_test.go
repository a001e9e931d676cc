package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

type document struct {
	Swagger     string                     `json:"swagger"`
	Info        map[string]any             `json:"info"`
	Paths       map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage `json:"definitions"`
}

func readDocument(t *testing.T) (document, string) {
	t.Helper()
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	return doc, raw
}

func TestDocument_Paths(t *testing.T) {
	doc, _ := readDocument(t)

	if doc.Swagger != "2.0" {
		t.Fatalf("expected swagger 2.0, got %q", doc.Swagger)
	}
	if doc.Info["title"] != SwaggerInfo.Title {
		t.Fatalf("expected title %q, got %v", SwaggerInfo.Title, doc.Info["title"])
	}
	for _, path := range []string{"/health", "/health/ready", "/inv/getInventory/{classification_id}"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("missing path %s", path)
		}
	}
}

func collectRefs(v any, refs *[]string) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if ref, ok := child.(string); ok && k == "$ref" {
				*refs = append(*refs, ref)
				continue
			}
			collectRefs(child, refs)
		}
	case []any:
		for _, child := range node {
			collectRefs(child, refs)
		}
	}
}

func TestDocument_RefsResolve(t *testing.T) {
	doc, raw := readDocument(t)

	var tree any
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var refs []string
	collectRefs(tree, &refs)
	if len(refs) == 0 {
		t.Fatalf("expected the document to reference its definitions")
	}
	for _, ref := range refs {
		name, ok := strings.CutPrefix(ref, "#/definitions/")
		if !ok {
			t.Errorf("unexpected reference %s", ref)
			continue
		}
		if _, ok := doc.Definitions[name]; !ok {
			t.Errorf("unresolved reference %s", ref)
		}
	}
}
