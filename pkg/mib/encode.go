package mib

import "encoding/json"

// moduleEnvelope is the serialized form of a Module including the detail
// records, which the wire shape deliberately omits. Used by the parse cache.
type moduleEnvelope struct {
	Name     string                `json:"name"`
	Identity Identity              `json:"module_identity"`
	Imports  map[string][]string   `json:"imports,omitempty"`
	Doc      []Node                `json:"doc"`
	Details  map[string]NodeDetail `json:"details"`
}

// EncodeModule serializes a module, detail records included, for caching.
func EncodeModule(m *Module) ([]byte, error) {
	return json.Marshal(moduleEnvelope{
		Name:     m.Name,
		Identity: m.Identity,
		Imports:  m.Imports,
		Doc:      m.Doc,
		Details:  m.details,
	})
}

// DecodeModule reverses EncodeModule.
func DecodeModule(data []byte) (*Module, error) {
	var env moduleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &Module{
		Name:     env.Name,
		Identity: env.Identity,
		Imports:  env.Imports,
		Doc:      env.Doc,
		details:  env.Details,
	}, nil
}
