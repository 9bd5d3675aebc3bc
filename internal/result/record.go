package result

// Record is the backing data instance of an object node: a tagged value
// exposing its concrete kind and its materialized field values. The tag is
// the identity checked when a type is scoped, and the field map is where
// scope field values are read from. Resolvers produce Records; the
// authorization pass only reads them.
type Record struct {
	tag    string
	fields map[string]any
}

// NewRecord builds a Record with the given tag and field values. The fields
// map is used as provided and must not be mutated afterwards.
func NewRecord(tag string, fields map[string]any) *Record {
	if fields == nil {
		fields = map[string]any{}
	}
	return &Record{tag: tag, fields: fields}
}

// Tag returns the record's kind identity.
func (r *Record) Tag() string { return r.tag }

// Field returns the value stored under name and whether it is present.
// A present nil value is (nil, true).
func (r *Record) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}
