package level

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/posejump/internal/detector"
)

// Connections is a list of landmark id pairs whose pose lines may become
// solid.
type Connections []detector.Connection

// DefaultConnections returns the full anatomical skeleton.
func DefaultConnections() Connections {
	c := make(Connections, len(detector.PoseConnections))
	copy(c, detector.PoseConnections)
	return c
}

// Allows reports whether the pair is listed, in either order.
func (c Connections) Allows(a, b int) bool {
	for _, pair := range c {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}

// UnmarshalYAML decodes a list of [a, b] pairs.
func (c *Connections) UnmarshalYAML(value *yaml.Node) error {
	var raw [][]int
	if err := value.Decode(&raw); err != nil {
		return err
	}
	out := make(Connections, 0, len(raw))
	for i, pair := range raw {
		if len(pair) != 2 {
			return fmt.Errorf("connection %d: expected 2 ids, got %d", i, len(pair))
		}
		out = append(out, detector.Connection{pair[0], pair[1]})
	}
	*c = out
	return nil
}
