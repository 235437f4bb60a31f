package services

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const payloadSchemaURL = "https://splitship.local/schemas/split-plan-fulfillment/v1.json"

//go:embed schema/fulfillment_payload.schema.json
var payloadSchemaSource []byte

// PayloadSchema returns the JSON schema of FulfillmentPayload, as served to
// partners.
func PayloadSchema() []byte {
	return append([]byte(nil), payloadSchemaSource...)
}

var compiledPayloadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(payloadSchemaURL, bytes.NewReader(payloadSchemaSource)); err != nil {
		return nil, fmt.Errorf("load payload schema: %w", err)
	}
	schema, err := c.Compile(payloadSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile payload schema: %w", err)
	}
	return schema, nil
})

// validateAgainstSchema checks raw JSON against the payload schema.
func validateAgainstSchema(raw []byte) error {
	schema, err := compiledPayloadSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return schema.Validate(doc)
}
