package style

// --- Editor property groups ------------------------------------------------
//
// The properties panel of the editor offers a fixed catalog of properties,
// organized into groups. Keyframes are not restricted to this catalog.

// PropertyGroup is a named collection of property keys sharing a common
// topic.
type PropertyGroup struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

// Symbolic names for string literals, denoting PropertyGroups.
const (
	PGTransform  = "Transform"
	PGAppearance = "Appearance"
	PGSize       = "Size"
	PGPosition   = "Position"
	PGX          = "X"
)

var editorGroups = []PropertyGroup{
	{PGTransform, []string{"translateX", "translateY", "scale", "rotate", "skew"}},
	{PGAppearance, []string{"opacity", "color", "backgroundColor"}},
	{PGSize, []string{"width", "height"}},
	{PGPosition, []string{"top", "left", "right", "bottom"}},
}

var groupNameFromPropertyKey = map[string]string{
	"transform":        PGTransform,
	"background-color": PGAppearance,
	"background":       PGAppearance,
	"min-width":        PGSize,
	"min-height":       PGSize,
	"max-width":        PGSize,
	"max-height":       PGSize,
}

func init() {
	for _, g := range editorGroups {
		for _, k := range g.Keys {
			groupNameFromPropertyKey[k] = g.Name
		}
	}
}

// EditorGroups returns the property catalog of the properties panel, in
// display order.
func EditorGroups() []PropertyGroup {
	groups := make([]PropertyGroup, len(editorGroups))
	for i, g := range editorGroups {
		keys := make([]string, len(g.Keys))
		copy(keys, g.Keys)
		groups[i] = PropertyGroup{Name: g.Name, Keys: keys}
	}
	return groups
}

// GroupNameFromPropertyKey returns the editor group name for a style
// property.
// Example:
//    GroupNameFromPropertyKey("opacity") => "Appearance"
//
// Unknown style property keys will return a group name of "X".
func GroupNameFromPropertyKey(key string) string {
	groupname, found := groupNameFromPropertyKey[key]
	if !found {
		groupname = PGX
	}
	return groupname
}
