package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://interact.local/schema/config-v1.schema.json"

//go:embed schema/config.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the compiled configuration schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// SchemaJSON returns the raw configuration schema.
func SchemaJSON() []byte {
	return append([]byte(nil), schemaJSON...)
}

// validateSchema checks c against the embedded schema. The config is
// normalized through JSON first so every format is validated the same way.
func validateSchema(c *Config) ValidationErrors {
	schema, err := Schema()
	if err != nil {
		return ValidationErrors{{Field: "schema", Message: err.Error()}}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return ValidationErrors{{Field: "config", Message: err.Error()}}
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return ValidationErrors{{Field: "config", Message: err.Error()}}
	}

	err = schema.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return ValidationErrors{{Field: "config", Message: err.Error()}}
	}

	var errs ValidationErrors
	collectSchemaErrors(verr, &errs)
	return errs
}

func collectSchemaErrors(verr *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(verr.Causes) == 0 {
		*errs = append(*errs, ValidationError{
			Field:   pointerToField(verr.InstanceLocation),
			Message: verr.Message,
		})
		return
	}
	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// pointerToField turns "/gestures/0/name" into "gestures.0.name".
func pointerToField(ptr string) string {
	field := strings.ReplaceAll(strings.TrimPrefix(ptr, "/"), "/", ".")
	if field == "" {
		return "config"
	}
	return field
}
