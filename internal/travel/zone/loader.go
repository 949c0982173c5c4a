package zone

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlZoneFile is the top-level structure of a zone data file.
// JSON files decode through the same structures since JSON is valid YAML.
type yamlZoneFile struct {
	Zones map[string]yamlZone `yaml:"zones"`
}

// yamlZone is the data file representation of a zone.
type yamlZone struct {
	Connections []yamlConnection `yaml:"connections"`
}

// yamlConnection is the data file representation of a connection.
type yamlConnection struct {
	Name        string     `yaml:"name"`
	Direction   string     `yaml:"direction"`
	Method      scalarText `yaml:"method"`
	Item        scalarText `yaml:"item"`
	Stone       scalarText `yaml:"stone"`
	Door        scalarText `yaml:"door"`
	Description scalarText `yaml:"description"`
}

// scalarText accepts any scalar (string, number, bool) and keeps its text form.
// Door numbers appear both quoted and unquoted in the wild.
type scalarText string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *scalarText) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			*s = ""
			return nil
		}
		*s = scalarText(n.Value)
		return nil
	default:
		return fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
}

// LoadFromFile reads zone data from path and returns the raw connection map.
//
// Precondition: path must point to a JSON or YAML zone data file.
// Postcondition: Returns the raw zone map (possibly empty) or a non-nil error.
func LoadFromFile(path string) (map[string][]Connection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading zone file %s: %w", path, err)
	}
	raw, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading zone file %s: %w", path, err)
	}
	return raw, nil
}

// LoadFromBytes parses zone data from JSON or YAML bytes.
//
// Postcondition: Returns the raw zone map (possibly empty) or a non-nil error.
// Connections without a target name are rejected.
func LoadFromBytes(data []byte) (map[string][]Connection, error) {
	var file yamlZoneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing zone data: %w", err)
	}
	return convertYAMLZones(file.Zones)
}

// convertYAMLZones converts the parsed structures into domain connections.
func convertYAMLZones(zones map[string]yamlZone) (map[string][]Connection, error) {
	raw := make(map[string][]Connection, len(zones))
	for name, yz := range zones {
		if name == "" {
			return nil, fmt.Errorf("zone name must not be empty")
		}
		conns := make([]Connection, 0, len(yz.Connections))
		for i, yc := range yz.Connections {
			if yc.Name == "" {
				return nil, fmt.Errorf("zone %q: connection %d has empty name", name, i)
			}
			conns = append(conns, Connection{
				Target:      yc.Name,
				Direction:   Direction(yc.Direction),
				Method:      string(yc.Method),
				Item:        string(yc.Item),
				Stone:       string(yc.Stone),
				Door:        string(yc.Door),
				Description: string(yc.Description),
			})
		}
		raw[name] = conns
	}
	return raw, nil
}

// UnknownDirections returns, per zone, connections whose direction is not one
// of the known values. Such connections are kept but are never traversable.
func UnknownDirections(raw map[string][]Connection) map[string][]Connection {
	out := make(map[string][]Connection)
	for name, conns := range raw {
		for _, c := range conns {
			if !c.Direction.IsKnown() {
				out[name] = append(out[name], c)
			}
		}
	}
	return out
}
