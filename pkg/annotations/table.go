package annotations

import (
	"reflect"
	"slices"
)

// Table holds the annotations visible on one runtime type. It is immutable.
type Table struct {
	typ     reflect.Type
	entries []Entry
}

// Type returns the runtime type the table was built for.
func (t *Table) Type() reflect.Type {
	return t.typ
}

// Entries returns all annotations in declaration order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Lookup returns the annotations whose payload is of the marker type, or implements it when marker is an
// interface type.
func (t *Table) Lookup(marker reflect.Type) []Entry {
	var found []Entry

	for _, entry := range t.entries {
		payloadType := reflect.TypeOf(entry.Payload)

		if payloadType == marker || (marker.Kind() == reflect.Interface && payloadType.Implements(marker)) {
			found = append(found, entry)
		}
	}

	return found
}
