// Package schema describes the JSON shapes expected back from the model, both
// as Gemini response schemas and as JSON Schema documents used to reject
// payloads that do not match.
package schema

import (
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
)

const leadsDocument = `{
	"type": "array",
	"minItems": 10,
	"items": {
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"industry": {"type": ["string", "null"]},
			"location": {"type": ["string", "null"]},
			"website": {"type": ["string", "null"]},
			"phone": {"type": ["string", "null"]},
			"email": {"type": ["string", "null"]},
			"rating": {"type": ["number", "null"]},
			"review_count": {"type": ["integer", "null"]}
		}
	}
}`

const auditDocument = `{
	"type": "object",
	"required": ["audit_score", "pain_points", "improvements", "outreach_message"],
	"properties": {
		"audit_score": {"type": "integer", "minimum": 0, "maximum": 100},
		"pain_points": {"type": "array", "items": {"type": "string"}},
		"improvements": {"type": "array", "items": {"type": "string"}},
		"outreach_message": {"type": "string"}
	}
}`

var (
	leadsSchema = mustCompile("leads", leadsDocument)
	auditSchema = mustCompile("audit", auditDocument)
)

// Leads is the response schema requested for a scout call.
var Leads = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":         {Type: genai.TypeString},
			"industry":     {Type: genai.TypeString},
			"location":     {Type: genai.TypeString},
			"website":      {Type: genai.TypeString, Nullable: true},
			"phone":        {Type: genai.TypeString},
			"email":        {Type: genai.TypeString, Nullable: true},
			"rating":       {Type: genai.TypeNumber, Nullable: true},
			"review_count": {Type: genai.TypeInteger, Nullable: true},
		},
		Required: []string{"name", "industry", "location", "phone"},
	},
}

// Audit is the response schema requested for an audit call.
var Audit = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"audit_score":      {Type: genai.TypeInteger},
		"pain_points":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"improvements":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"outreach_message": {Type: genai.TypeString},
	},
	Required: []string{"audit_score", "pain_points", "improvements", "outreach_message"},
}

func ValidateLeads(raw []byte) error {
	return validate(leadsSchema, "leads", raw)
}

func ValidateAudit(raw []byte) error {
	return validate(auditSchema, "audit", raw)
}

func validate(s *gojsonschema.Schema, name string, raw []byte) error {
	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%s payload validation failed: %v", name, errs)
	}

	return nil
}

func mustCompile(name, document string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		panic(fmt.Sprintf("schema: compile %s: %v", name, err))
	}
	return s
}
