package n1ql

// Direction is an ORDER BY direction
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// normalize maps anything other than ASC or DESC to ASC
func (d Direction) normalize() Direction {
	if d == Desc {
		return Desc
	}
	return Asc
}

// orderings keeps ORDER BY fields in insertion order. Adding a field again
// replaces its direction without moving it.
type orderings struct {
	fields     []string
	directions map[string]Direction
}

func (o *orderings) set(field string, direction Direction) {
	if o.directions == nil {
		o.directions = make(map[string]Direction)
	}
	if _, exists := o.directions[field]; !exists {
		o.fields = append(o.fields, field)
	}
	o.directions[field] = direction
}

func (o *orderings) len() int {
	return len(o.fields)
}

// clauses returns "field DIRECTION" fragments in insertion order
func (o *orderings) clauses() []string {
	parts := make([]string, 0, len(o.fields))
	for _, field := range o.fields {
		parts = append(parts, field+" "+string(o.directions[field]))
	}
	return parts
}
