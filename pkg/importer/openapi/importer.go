// Package openapi imports form pages from OpenAPI documents. An operation's
// request body already describes the fields a client must supply; the
// importer turns that schema into editable form fields so admins start from
// the API contract instead of an empty page.
package openapi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Importer maps OpenAPI request bodies onto form fields.
type Importer struct {
	resolveRefs bool
}

type Option func(*Importer)

// WithReferenceResolution validates the document and follows $ref targets.
func WithReferenceResolution() Option {
	return func(i *Importer) {
		i.resolveRefs = true
	}
}

// New constructs an Importer.
func New(opts ...Option) *Importer {
	imp := &Importer{}
	for _, o := range opts {
		o(imp)
	}
	return imp
}

// FormFromOperation loads an OpenAPI document and builds a one-page form
// from the named operation's request body. Operations are matched by
// operationId.
func (i *Importer) FormFromOperation(ctx context.Context, doc []byte, operationID string) (schema.Form, error) {
	if len(doc) == 0 {
		return schema.Form{}, fmt.Errorf("openapi import: document is empty")
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: i.resolveRefs}
	spec, err := loader.LoadFromData(doc)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi import: load document: %w", err)
	}
	if i.resolveRefs {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Form{}, fmt.Errorf("openapi import: validate: %w", err)
		}
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Form{}, fmt.Errorf("openapi import: operation %q not found", operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return schema.Form{}, fmt.Errorf("openapi import: operation %q has no request body properties", operationID)
	}

	fields := fieldsFromSchema(body)
	title := operation.Summary
	if title == "" {
		title = operationID
	}

	form := schema.Form{
		Title:       title,
		Description: operation.Description,
		Pages:       []schema.Page{{Title: title, Elements: fields}},
	}
	return form, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// fieldsFromSchema maps object properties onto fields. OpenAPI property
// maps are unordered, so names are sorted for a stable import.
func fieldsFromSchema(body *openapi3.Schema) []schema.Field {
	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := fieldFromProperty(name, ref.Value)
		field.IsRequired = required[name]
		field.Position = len(fields)
		fields = append(fields, field)
	}
	return fields
}

func fieldFromProperty(name string, prop *openapi3.Schema) schema.Field {
	field := schema.NewField(fieldType(prop))
	// The property name is the API contract; pin it so later title edits in
	// the builder cannot drift the payload key.
	field.Name = schema.DeriveName(name)
	field.NameOverridden = true
	field.Title = titleOf(name, prop)
	field.Description = prop.Description

	if len(prop.Enum) > 0 {
		raw := make([]any, len(prop.Enum))
		copy(raw, prop.Enum)
		field.Options = schema.NormalizeOptions(raw)
	}
	if prop.Items != nil && prop.Items.Value != nil && len(prop.Items.Value.Enum) > 0 {
		raw := make([]any, len(prop.Items.Value.Enum))
		copy(raw, prop.Items.Value.Enum)
		field.Options = schema.NormalizeOptions(raw)
	}

	if prop.MinLength != 0 {
		min := int(prop.MinLength)
		field.MinLength = &min
	}
	if prop.MaxLength != nil {
		max := int(*prop.MaxLength)
		field.MaxLength = &max
	}
	if prop.Pattern != "" {
		field.Validators = append(field.Validators, schema.CustomValidator{
			Regex: prop.Pattern,
			Text:  fmt.Sprintf("Value must match %s", prop.Pattern),
		})
	}
	return field
}

func fieldType(prop *openapi3.Schema) schema.FieldType {
	switch typeOf(prop) {
	case "boolean":
		return schema.TypeToggle
	case "integer", "number":
		return schema.TypeNumber
	case "array":
		if prop.Items != nil && prop.Items.Value != nil && len(prop.Items.Value.Enum) > 0 {
			return schema.TypeMultiselect
		}
		return schema.TypeText
	case "string":
		if len(prop.Enum) > 0 {
			return schema.TypeSelect
		}
		switch prop.Format {
		case "email":
			return schema.TypeEmail
		case "uri", "url":
			return schema.TypeURL
		case "date":
			return schema.TypeDate
		case "date-time":
			return schema.TypeDatetime
		case "password":
			return schema.TypePassword
		case "binary", "byte":
			return schema.TypeFile
		case "phone", "tel":
			return schema.TypeTel
		}
		return schema.TypeText
	}
	return schema.TypeText
}

func typeOf(prop *openapi3.Schema) string {
	if prop.Type == nil {
		return ""
	}
	values := prop.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// titleOf prefers the schema's own title, falling back to the property name
// split on underscores and title-cased.
func titleOf(name string, prop *openapi3.Schema) string {
	if prop.Title != "" {
		return prop.Title
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
