package main_test

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

func loadOpenAPIDoc(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	return loader.LoadFromFile(path)
}

func loaderContext() context.Context {
	return context.Background()
}
