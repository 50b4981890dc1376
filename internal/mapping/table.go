package mapping

import "strings"

// Table is an immutable, ordered set of device mappings.
type Table struct {
	mappings []DeviceMacMapping
}

// New builds a Table from mappings. The input is copied and range bounds are
// upper-cased; separators are left as written.
func New(mappings []DeviceMacMapping) *Table {
	out := make([]DeviceMacMapping, 0, len(mappings))
	for _, m := range mappings {
		ranges := make([]MacRange, 0, len(m.MAC))
		for _, r := range m.MAC {
			ranges = append(ranges, MacRange{
				Start: strings.ToUpper(r.Start),
				End:   strings.ToUpper(r.End),
			})
		}
		out = append(out, DeviceMacMapping{ID: m.ID, MAC: ranges})
	}
	return &Table{mappings: out}
}

// MatchDeviceID returns the id of the first mapping owning a range that
// contains mac. The caller is expected to pass an upper-cased address.
func (t *Table) MatchDeviceID(mac string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, m := range t.mappings {
		for _, r := range m.MAC {
			if r.Contains(mac) {
				return m.ID, true
			}
		}
	}
	return "", false
}

// Len returns the number of mappings in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.mappings)
}

// Mappings returns a copy of the table contents in table order.
func (t *Table) Mappings() []DeviceMacMapping {
	if t == nil {
		return nil
	}
	out := make([]DeviceMacMapping, len(t.mappings))
	for i, m := range t.mappings {
		out[i] = DeviceMacMapping{ID: m.ID, MAC: append([]MacRange(nil), m.MAC...)}
	}
	return out
}
