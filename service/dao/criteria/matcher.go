// Package criteria evaluates List parameters against item attributes.
package criteria

import (
	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/dao"
)

// MatchesState reports whether an item in the given state passes the supplied
// parameters. Unknown parameter names do not filter.
func MatchesState(state item.State, parameters []*dao.Parameter) bool {
	switch len(parameters) {
	case 0:
		return true
	case 1:
		if parameters[0].Name == "State" {
			switch actual := parameters[0].Value.(type) {
			case string:
				return string(state) == actual
			case item.State:
				return state == actual
			case []string:
				for _, candidate := range actual {
					if string(state) == candidate {
						return true
					}
				}
				return false
			}
		}
	}
	return true
}
