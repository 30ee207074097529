package dao

// Parameter narrows List results to entities whose field Name holds one of
// Values.
type Parameter struct {
	Name   string
	Values []string
}

func NewParameter(name string, values ...string) *Parameter {
	return &Parameter{Name: name, Values: values}
}
