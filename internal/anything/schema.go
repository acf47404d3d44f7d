package anything

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v6"
)

// Contract names accepted by Schema and Validate.
const (
	ContractRequest  = "request"
	ContractResponse = "response"
)

// Contracts lists the contract names in display order.
var Contracts = []string{ContractRequest, ContractResponse}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
}

// Schema returns the JSON Schema document for the named contract.
func Schema(contract string) ([]byte, error) {
	var s *jsonschema.Schema
	switch contract {
	case ContractRequest:
		s = reflector().Reflect(&RequestBody{})
	case ContractResponse:
		s = reflector().Reflect(&ResponseBody{})
	default:
		return nil, fmt.Errorf("unknown contract %q (want one of %v)", contract, Contracts)
	}
	return json.MarshalIndent(s, "", "  ")
}

// Validate checks a JSON document against the named contract.
func Validate(contract string, document []byte) error {
	raw, err := Schema(contract)
	if err != nil {
		return err
	}
	schemaDoc, err := validator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decoding %s schema: %w", contract, err)
	}

	loc := contract + ".schema.json"
	c := validator.NewCompiler()
	if err := c.AddResource(loc, schemaDoc); err != nil {
		return fmt.Errorf("loading %s schema: %w", contract, err)
	}
	sch, err := c.Compile(loc)
	if err != nil {
		return fmt.Errorf("compiling %s schema: %w", contract, err)
	}

	inst, err := validator.UnmarshalJSON(bytes.NewReader(document))
	if err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return sch.Validate(inst)
}
