package n1ql

import (
	"encoding/json"
	"fmt"
)

// ParamKind identifies which value a Param carries
type ParamKind int

const (
	StringKind ParamKind = iota
	IntKind
	StringsKind
)

func (k ParamKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case StringsKind:
		return "strings"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// Param is a named-parameter value. Only strings, integers and string lists
// can be bound; anything else is rejected by ParamOf.
type Param struct {
	kind    ParamKind
	str     string
	integer int64
	list    []string
}

func StringParam(s string) Param {
	return Param{kind: StringKind, str: s}
}

func IntParam(i int64) Param {
	return Param{kind: IntKind, integer: i}
}

func StringsParam(values ...string) Param {
	list := make([]string, len(values))
	copy(list, values)
	return Param{kind: StringsKind, list: list}
}

// ParamOf converts a loosely typed value, e.g. one decoded from YAML or JSON.
func ParamOf(v interface{}) (Param, error) {
	switch value := v.(type) {
	case Param:
		return value, nil
	case string:
		return StringParam(value), nil
	case int:
		return IntParam(int64(value)), nil
	case int8:
		return IntParam(int64(value)), nil
	case int16:
		return IntParam(int64(value)), nil
	case int32:
		return IntParam(int64(value)), nil
	case int64:
		return IntParam(value), nil
	case uint8:
		return IntParam(int64(value)), nil
	case uint16:
		return IntParam(int64(value)), nil
	case uint32:
		return IntParam(int64(value)), nil
	case []string:
		return StringsParam(value...), nil
	case []interface{}:
		list := make([]string, 0, len(value))
		for i, item := range value {
			s, ok := item.(string)
			if !ok {
				return Param{}, fmt.Errorf("unsupported parameter list element %d of type %T", i, item)
			}
			list = append(list, s)
		}
		return StringsParam(list...), nil
	default:
		return Param{}, fmt.Errorf("unsupported parameter type %T", v)
	}
}

func (p Param) Kind() ParamKind {
	return p.kind
}

// Value returns the plain Go value handed to query executors.
func (p Param) Value() interface{} {
	switch p.kind {
	case IntKind:
		return p.integer
	case StringsKind:
		list := make([]string, len(p.list))
		copy(list, p.list)
		return list
	default:
		return p.str
	}
}

func (p Param) String() string {
	switch p.kind {
	case IntKind:
		return fmt.Sprintf("%d", p.integer)
	case StringsKind:
		return fmt.Sprintf("%q", p.list)
	default:
		return p.str
	}
}

func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value())
}

func (p *Param) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// JSON numbers decode as float64
	if f, ok := raw.(float64); ok {
		if f != float64(int64(f)) {
			return fmt.Errorf("unsupported parameter value %v: not an integer", f)
		}
		raw = int64(f)
	}

	param, err := ParamOf(raw)
	if err != nil {
		return err
	}
	*p = param
	return nil
}
