package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/uKV/lib/resource"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{strict: false}
}

// NewStrictJSONSerializer creates a new json serializer that rejects unknown
// object fields and trailing data after the first json value
func NewStrictJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{strict: true}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct {
	strict bool
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(v any) ([]byte, error) {
	return resource.EncodeJSON(v)
}

func (j jsonSerializerImpl) Deserialize(b []byte, v any) error {
	if !j.strict {
		return json.Unmarshal(b, v)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after json value")
	}
	return nil
}
