package mapping

import "fmt"

// MacRange is an inclusive range of hardware addresses.
type MacRange struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// Contains reports whether mac lies within the range under string ordering.
func (r MacRange) Contains(mac string) bool {
	return r.Start <= mac && mac <= r.End
}

// String returns the range as "start-end"
func (r MacRange) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// DeviceMacMapping associates a device identifier with its address ranges.
type DeviceMacMapping struct {
	ID  string     `yaml:"id" json:"id"`
	MAC []MacRange `yaml:"mac" json:"mac"`
}

// document is the wrapped YAML layout ("devices:" key).
type document struct {
	Devices []DeviceMacMapping `yaml:"devices"`
}
