package config

import "gopkg.in/yaml.v3"

func unmarshal(doc string, v interface{}) error {
	return yaml.Unmarshal([]byte(doc), v)
}
