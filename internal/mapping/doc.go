// Package mapping holds the hardware-address range table that turns a MAC
// address into a device identifier.
//
// A table is an ordered list of mappings. Each mapping owns one or more
// inclusive address ranges:
//
//	- id: sensor-hub
//	  mac:
//	    - start: "B8:27:EB:00:00:00"
//	      end:   "B8:27:EB:FF:FF:FF"
//
// # Matching
//
// Range containment is decided by plain string comparison, not by the
// numeric value of the address. For fixed-width uppercase colon-separated
// addresses the two agree, which is why Lint reports every entry that is not
// written in that canonical form instead of silently rewriting it.
//
// The first range that contains the address wins, scanning mappings in table
// order and ranges in list order.
//
// # File Formats
//
// Tables are loaded from YAML (.yaml, .yml) or JSON (.json). JSON is the
// historical deviceMapping.json layout, a bare array of mappings. YAML accepts
// either a bare list or a document with a top-level "devices" key.
//
// A Table is immutable once built and safe for concurrent use.
package mapping
