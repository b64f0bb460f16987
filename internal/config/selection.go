package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selection names entities explicitly or selects all of them.
//
// Accepted YAML forms:
//
//	muscles: {all: true}
//	muscles: {names: [BIClong, BRA]}
//	muscles: "BIClong BRA"
//	muscles: [BIClong, BRA]
//	muscles: all
type Selection struct {
	All   bool
	Names []string
}

type selectionDoc struct {
	All   bool     `yaml:"all,omitempty"`
	Names []string `yaml:"names,omitempty"`
}

func (s *Selection) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if strings.EqualFold(strings.TrimSpace(node.Value), "all") {
			*s = Selection{All: true}
			return nil
		}
		*s = Selection{Names: strings.Fields(node.Value)}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*s = Selection{Names: names}
		return nil
	case yaml.MappingNode:
		var raw struct {
			All   string    `yaml:"all"`
			Names yaml.Node `yaml:"names"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		// "all" is compared case-insensitively, so TRUE and True work too.
		sel := Selection{All: strings.EqualFold(strings.TrimSpace(raw.All), "true")}
		if raw.Names.Kind != 0 {
			var names Selection
			if err := raw.Names.Decode(&names); err != nil {
				return err
			}
			sel.Names = names.Names
		}
		*s = sel
		return nil
	}
	return fmt.Errorf("line %d: selection must be a mapping, a list or a string", node.Line)
}

func (s Selection) MarshalYAML() (interface{}, error) {
	return selectionDoc{All: s.All, Names: s.Names}, nil
}

func (s Selection) String() string {
	if s.All {
		return "all"
	}
	return strings.Join(s.Names, " ")
}
