package workshop

// vectorComponents are the attributes of vector-valued expressions.
var vectorComponents = map[string]string{
	"x": "X Component Of(%s)",
	"y": "Y Component Of(%s)",
	"z": "Z Component Of(%s)",
}

// playerAttributes are the attributes of player-valued expressions.
var playerAttributes = map[string]string{
	"health":     "Health(%s)",
	"max_health": "Max Health(%s)",
	"position":   "Position Of(%s)",
	"facing":     "Facing Direction Of(%s)",
	"team":       "Team Of(%s)",
	"is_alive":   "Is Alive(%s)",
	"is_dead":    "Is Dead(%s)",
}

// attributes maps (owner node kind, lowercase attribute name) to the format
// template wrapping the rendered owner. Kinds come from ast.Kind; attribute
// access on any pair missing here is an attribute error.
var attributes = map[string]map[string]string{
	"Vector": vectorComponents,
}

func init() {
	// variables, attribute chains and other dynamically-typed owners can
	// hold players or vectors, so they accept both attribute sets; this is
	// what lets a chain like position followed by a component resolve
	merged := make(map[string]string, len(playerAttributes)+len(vectorComponents))
	for name, tmpl := range playerAttributes {
		merged[name] = tmpl
	}
	for name, tmpl := range vectorComponents {
		merged[name] = tmpl
	}
	for _, kind := range []string{"GlobalVar", "PlayerVar", "Constant", "Instruction", "Call", "Item", "Attribute"} {
		attributes[kind] = merged
	}
}

// Attribute returns the format template for an attribute access on the given
// owner node kind.
func Attribute(kind, name string) (string, bool) {
	set, ok := attributes[kind]
	if !ok {
		return "", false
	}
	tmpl, ok := set[name]
	return tmpl, ok
}
