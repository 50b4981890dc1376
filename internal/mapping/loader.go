package mapping

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format identifies a table file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the table format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", &LoadError{
			Kind:    ErrKindFormat,
			Path:    path,
			Message: fmt.Sprintf("unsupported extension %q (expected .yaml, .yml or .json)", filepath.Ext(path)),
		}
	}
}

// Load reads a table file and builds an immutable Table from it.
func Load(path string) (*Table, error) {
	mappings, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(mappings), nil
}

// ReadFile returns the mappings of a table file exactly as written, without
// the case normalization New applies. Use it together with Lint.
func ReadFile(path string) ([]DeviceMacMapping, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Kind: ErrKindRead, Path: path, Message: "failed to read mapping file", Err: err}
	}

	mappings, err := Parse(data, format)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	return mappings, nil
}

// Parse decodes table data in the given format.
func Parse(data []byte, format Format) ([]DeviceMacMapping, error) {
	var (
		mappings []DeviceMacMapping
		err      error
	)
	switch format {
	case FormatYAML:
		mappings, err = parseYAML(data)
	case FormatJSON:
		mappings, err = parseJSON(data)
	default:
		return nil, &LoadError{Kind: ErrKindFormat, Message: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, err
	}
	if err := validate(mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

func parseYAML(data []byte) ([]DeviceMacMapping, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &LoadError{Kind: ErrKindParse, Message: "invalid YAML", Err: err}
	}
	if len(node.Content) == 0 {
		return []DeviceMacMapping{}, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var mappings []DeviceMacMapping
		if err := root.Decode(&mappings); err != nil {
			return nil, &LoadError{Kind: ErrKindSchema, Message: "invalid mapping list", Err: err}
		}
		return mappings, nil
	case yaml.MappingNode:
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, &LoadError{Kind: ErrKindSchema, Message: "invalid mapping document", Err: err}
		}
		return doc.Devices, nil
	default:
		return nil, newSchemaError("expected a list of mappings or a \"devices\" key")
	}
}

func parseJSON(data []byte) ([]DeviceMacMapping, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []DeviceMacMapping{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, &LoadError{Kind: ErrKindParse, Message: "invalid JSON"}
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, newSchemaError("expected a top-level array of mappings")
	}

	var (
		mappings  []DeviceMacMapping
		schemaErr error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		idx := int(key.Int())
		if !value.IsObject() {
			schemaErr = newSchemaError("mapping %d is not an object", idx)
			return false
		}

		id := value.Get("id")
		if id.Type != gjson.String {
			schemaErr = newSchemaError("mapping %d: \"id\" must be a string", idx)
			return false
		}

		macs := value.Get("mac")
		if !macs.IsArray() {
			schemaErr = newSchemaError("mapping %d (%s): \"mac\" must be an array", idx, id.String())
			return false
		}

		m := DeviceMacMapping{ID: id.String(), MAC: []MacRange{}}
		macs.ForEach(func(rkey, rvalue gjson.Result) bool {
			start, end := rvalue.Get("start"), rvalue.Get("end")
			if start.Type != gjson.String || end.Type != gjson.String {
				schemaErr = newSchemaError("mapping %d (%s) range %d: \"start\" and \"end\" must be strings", idx, m.ID, rkey.Int())
				return false
			}
			m.MAC = append(m.MAC, MacRange{Start: start.String(), End: end.String()})
			return true
		})
		if schemaErr != nil {
			return false
		}

		mappings = append(mappings, m)
		return true
	})
	if schemaErr != nil {
		return nil, schemaErr
	}
	if mappings == nil {
		mappings = []DeviceMacMapping{}
	}
	return mappings, nil
}

// validate enforces the fields the matcher depends on.
func validate(mappings []DeviceMacMapping) error {
	for i, m := range mappings {
		if m.ID == "" {
			return newSchemaError("mapping %d: missing id", i)
		}
		for j, r := range m.MAC {
			if r.Start == "" || r.End == "" {
				return newSchemaError("mapping %d (%s) range %d: start and end are required", i, m.ID, j)
			}
		}
	}
	return nil
}
