package model

// Row is an ordered set of named cells. Field order is the order in which
// names were first set; setting an existing name replaces its value but
// keeps its position.
type Row struct {
	names  []string
	values map[string]Value
}

// NewRow creates an empty row with room for n fields.
func NewRow(n int) *Row {
	return &Row{
		names:  make([]string, 0, n),
		values: make(map[string]Value, n),
	}
}

// Set assigns value to name.
func (r *Row) Set(name string, value Value) {
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// SetText is shorthand for Set(name, Text(s)).
func (r *Row) SetText(name, s string) {
	r.Set(name, Text(s))
}

// Get returns the value stored under name.
func (r *Row) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether name has been set.
func (r *Row) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Names returns the field names in insertion order. The slice is shared;
// callers must not modify it.
func (r *Row) Names() []string {
	return r.names
}

// Len returns the number of fields.
func (r *Row) Len() int {
	return len(r.names)
}

// Merge copies every field of other into r, in other's order.
func (r *Row) Merge(other *Row) {
	if other == nil {
		return
	}
	for _, name := range other.names {
		r.Set(name, other.values[name])
	}
}

// Number returns the numeric reading of name; a missing field is NaN, the
// same as subtracting an undefined property.
func (r *Row) Number(name string) float64 {
	v, ok := r.values[name]
	if !ok {
		return nan()
	}
	return v.Float()
}
