package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Example returns a small table suitable as a starting point for users.
func Example() []DeviceMacMapping {
	return []DeviceMacMapping{
		{
			ID: "raspberry-pi",
			MAC: []MacRange{
				{Start: "B8:27:EB:00:00:00", End: "B8:27:EB:FF:FF:FF"},
				{Start: "DC:A6:32:00:00:00", End: "DC:A6:32:FF:FF:FF"},
			},
		},
		{
			ID:  "espressif",
			MAC: []MacRange{{Start: "24:0A:C4:00:00:00", End: "24:0A:C4:FF:FF:FF"}},
		},
	}
}

const yamlHeader = `# molehole device mapping table
# Each device lists inclusive hardware address ranges. Write bounds as
# uppercase "AA:BB:CC:DD:EE:FF"; ranges are compared as strings.
# Check this file with: molehole mapping check

`

// WriteFile writes mappings in the format picked from the path extension:
// YAML under a "devices:" key, or a top-level JSON array. The file is
// written to a temporary path first and renamed into place.
func WriteFile(path string, mappings []DeviceMacMapping) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if mappings == nil {
		mappings = []DeviceMacMapping{}
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(mappings, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(document{Devices: mappings})
		data = append([]byte(yamlHeader), data...)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal mapping table: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create mapping directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary mapping file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save mapping file: %w", err)
	}
	return nil
}
