// Package apidoc builds the OpenAPI document served at /api/openapi.json.
package apidoc

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/xrsl/cvlift/pkg/improve"
)

//go:embed openapi.yaml
var base []byte

// Route is one documented operation.
type Route struct {
	Method      string
	Path        string
	OperationID string
}

// Load parses the embedded document, stamps the version and the option
// enum, and validates the result.
func Load(ctx context.Context, version string) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(base)
	if err != nil {
		return nil, fmt.Errorf("apidoc: load document: %w", err)
	}

	if version != "" {
		doc.Info.Version = version
	}

	opt := doc.Components.Schemas["Option"]
	if opt == nil || opt.Value == nil {
		return nil, errors.New("apidoc: Option schema missing")
	}
	value := opt.Value.Properties["value"]
	if value == nil || value.Value == nil {
		return nil, errors.New("apidoc: Option.value schema missing")
	}
	value.Value.Enum = nil
	for _, o := range improve.Options() {
		value.Value.Enum = append(value.Value.Enum, o.Value)
	}

	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("apidoc: validate: %w", err)
	}
	return doc, nil
}

// JSON renders the document for serving.
func JSON(ctx context.Context, version string) ([]byte, error) {
	doc, err := Load(ctx, version)
	if err != nil {
		return nil, err
	}
	return doc.MarshalJSON()
}

// Routes lists the documented operations sorted by path then method.
func Routes(doc *openapi3.T) []Route {
	var routes []Route
	if doc == nil || doc.Paths == nil {
		return routes
	}
	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			routes = append(routes, Route{Method: method, Path: path, OperationID: op.OperationID})
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}
