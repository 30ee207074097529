package criteria

import (
	"slices"

	"github.com/viant/houghcircles/service/dao"
)

// Match reports whether fields satisfy every parameter.  Parameters naming an
// unknown field or carrying no value are ignored.
func Match(fields map[string]string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		actual, ok := fields[parameter.Name]
		if !ok || len(parameter.Values) == 0 {
			continue
		}
		if !slices.Contains(parameter.Values, actual) {
			return false
		}
	}
	return true
}
