package service

import (
	"bytes"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/medianest/docqa/domain"
)

// ReportSchema is the JSON Schema (Draft 2020-12) for the quality report
// JSON output. It documents the structure produced by WriteJSON.
const ReportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/medianest/docqa/quality-report.schema.json",
  "title": "Documentation Quality Report",
  "description": "Output schema for docqa dashboard --format=json",
  "type": "object",
  "required": [
    "generated_at", "duration_ms", "version", "module_reports",
    "modules_executed", "overall_score", "critical_issues",
    "total_issues", "gate_results", "recommendations"
  ],
  "properties": {
    "generated_at": {
      "type": "string",
      "description": "Report generation time (RFC 3339, UTC)"
    },
    "duration_ms": {
      "type": "integer",
      "description": "Total run duration in milliseconds"
    },
    "version": {
      "type": "string",
      "description": "docqa version that produced the report"
    },
    "module_reports": {
      "type": "object",
      "additionalProperties": { "$ref": "#/$defs/ModuleReport" }
    },
    "modules_executed": {
      "type": "array",
      "items": { "type": "string" }
    },
    "modules_skipped": {
      "type": "array",
      "items": { "type": "string" }
    },
    "overall_score": {
      "type": "number",
      "minimum": 0,
      "maximum": 100,
      "description": "Weighted blend of module scores, one decimal place"
    },
    "critical_issues": { "type": "integer", "minimum": 0 },
    "total_issues": { "type": "integer", "minimum": 0 },
    "recommendations_count": { "type": "integer", "minimum": 0 },
    "gate_results": { "$ref": "#/$defs/GateResults" },
    "recommendations": {
      "type": "array",
      "items": { "type": "string" }
    }
  },
  "$defs": {
    "ModuleReport": {
      "type": "object",
      "required": ["module_name", "module_score", "duration_ms"],
      "properties": {
        "module_name": { "type": "string" },
        "findings": {
          "oneOf": [
            { "type": "array", "items": { "$ref": "#/$defs/Finding" } },
            { "type": "null" }
          ]
        },
        "module_score": { "type": "number", "minimum": 0, "maximum": 100 },
        "summary": { "type": "object" },
        "recommendations": {
          "type": "array",
          "items": { "type": "string" }
        },
        "error": {
          "type": "string",
          "description": "Set when the checker failed to run"
        },
        "duration_ms": { "type": "integer" }
      }
    },
    "Finding": {
      "type": "object",
      "required": ["file", "category", "severity", "message"],
      "properties": {
        "file": { "type": "string" },
        "line": { "type": "integer", "minimum": 1 },
        "category": { "type": "string" },
        "severity": {
          "type": "string",
          "enum": ["critical", "major", "minor"]
        },
        "message": { "type": "string" },
        "recommendation": { "type": "string" }
      }
    },
    "GateResults": {
      "type": "object",
      "required": ["gates", "overall"],
      "properties": {
        "gates": {
          "type": "object",
          "additionalProperties": { "$ref": "#/$defs/GateResult" }
        },
        "overall": {
          "type": "object",
          "required": ["passed", "passed_count", "total_count"],
          "properties": {
            "passed": { "type": "boolean" },
            "passed_count": { "type": "integer" },
            "total_count": { "type": "integer" }
          }
        }
      }
    },
    "GateResult": {
      "type": "object",
      "required": ["threshold", "actual", "passed"],
      "properties": {
        "threshold": { "type": "number" },
        "actual": { "type": "number" },
        "passed": { "type": "boolean" },
        "missing_metric": { "type": "boolean" }
      }
    }
  }
}`

// ValidateReportJSON checks a serialized quality report against the
// embedded schema. Used by "docqa schema --validate".
func ValidateReportJSON(data []byte) error {
	sch, err := jsonschema.UnmarshalJSON(strings.NewReader(ReportSchema))
	if err != nil {
		return domain.NewOutputError("failed to parse report schema", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("quality-report.schema.json", sch); err != nil {
		return domain.NewOutputError("failed to register report schema", err)
	}
	compiled, err := compiler.Compile("quality-report.schema.json")
	if err != nil {
		return domain.NewOutputError("failed to compile report schema", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return domain.NewInvalidInputError("report is not valid JSON", err)
	}
	if err := compiled.Validate(inst); err != nil {
		return domain.NewInvalidInputError("report does not conform to schema", err)
	}
	return nil
}
