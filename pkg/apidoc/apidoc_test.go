package apidoc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xrsl/cvlift/pkg/improve"
)

func TestLoadValidates(t *testing.T) {
	doc, err := Load(context.Background(), "1.2.3")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Info.Version != "1.2.3" {
		t.Errorf("version = %q", doc.Info.Version)
	}
}

func TestOptionEnumMatchesRegistry(t *testing.T) {
	doc, err := Load(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, v := range doc.Components.Schemas["Option"].Value.Properties["value"].Value.Enum {
		got = append(got, v.(string))
	}
	var want []string
	for _, o := range improve.Options() {
		want = append(want, o.Value)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestRoutes(t *testing.T) {
	doc, err := Load(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	want := []Route{
		{Method: "GET", Path: "/api/options", OperationID: "listOptions"},
		{Method: "POST", Path: "/api/validate", OperationID: "validateSubmission"},
		{Method: "POST", Path: "/editor/submit", OperationID: "submit"},
		{Method: "GET", Path: "/healthz", OperationID: "health"},
	}
	if diff := cmp.Diff(want, Routes(doc)); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}
	if len(Routes(nil)) != 0 {
		t.Error("Routes(nil) should be empty")
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(context.Background(), "0.1.0")
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.OpenAPI != "3.0.3" || out.Info.Version != "0.1.0" {
		t.Errorf("unexpected header: %+v", out)
	}
}
