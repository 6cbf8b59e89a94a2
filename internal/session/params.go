package session

import (
	"strconv"
	"strings"

	"mad-puzzle/internal/adjacency"
	"mad-puzzle/internal/core"
)

// Parameters implements core.ParameterProvider.
func (s *Session) Parameters() core.ParameterSnapshot {
	reg := s.resolver.Registry()
	adjNames := make([]string, 0, 3)
	for _, m := range adjacency.Modes() {
		adjNames = append(adjNames, m.String())
	}
	cascadeNames := make([]string, 0, 4)
	for _, m := range CascadeModes() {
		cascadeNames = append(cascadeNames, m.String())
	}
	groups := []core.ParameterGroup{
		{
			Name: "Board",
			Params: []core.Parameter{
				intParam("w", "Width", s.grid.Width()),
				intParam("h", "Height", s.grid.Height()),
			},
		},
		{
			Name: "Rules",
			Params: []core.Parameter{
				enumParam("adjacency", "Adjacency", s.cfg.Adjacency.String(), adjNames),
				enumParam("cascade", "Cascade", s.cfg.Cascade.String(), cascadeNames),
				intParam("max_iterations", "Max iterations", s.cfg.MaxIterations),
				intParam("types", "Tile types", reg.Len()),
				intParam("rules", "Rules", s.resolver.RuleCount()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func enumParam(key, label, value string, options []string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeEnum, Value: value, Description: strings.Join(options, " | ")}
}
