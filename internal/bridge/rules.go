package bridge

import "strings"

// Group is an anatomical muscle group. Its value is the control vector
// channel that drives it.
type Group int

const (
	ShoulderExtensors Group = iota
	ShoulderFlexors
	ElbowExtensors
	ElbowFlexors
)

var groupNames = [...]string{
	ShoulderExtensors: "shoulder extensors",
	ShoulderFlexors:   "shoulder flexors",
	ElbowExtensors:    "elbow extensors",
	ElbowFlexors:      "elbow flexors",
}

func (g Group) String() string {
	if g < 0 || int(g) >= len(groupNames) {
		return "unknown"
	}
	return groupNames[g]
}

func (g Group) Channel() int { return int(g) }

// Rule maps a case-sensitive name prefix to a group.
type Rule struct {
	Prefix string
	Group  Group
}

// rules is tried in order; the first match wins.
var rules = []Rule{
	{"BIC", ElbowFlexors},
	{"BRA", ElbowFlexors},
	{"TRI", ElbowExtensors},
	{"PECM", ShoulderFlexors},
	{"DELT1", ShoulderFlexors},
	{"Coraco", ShoulderFlexors},
	{"DELT3", ShoulderExtensors},
	{"Infra", ShoulderExtensors},
	{"Latis", ShoulderExtensors},
	{"Teres", ShoulderExtensors},
}

// Rules returns the classification rules in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify returns the group of the first rule whose prefix matches name.
func Classify(name string) (Group, bool) {
	for _, r := range rules {
		if strings.HasPrefix(name, r.Prefix) {
			return r.Group, true
		}
	}
	return 0, false
}
