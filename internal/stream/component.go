package stream

// BackgroundName is the reserved component name for the non-stream
// population. It is the only name that maps to a background-tagged Component.
const BackgroundName = "background"

// Component identifies one mixture component to render. The background
// population is a tagged variant rather than a magic string so precedence
// handling is a field check, not a string comparison buried in a loop.
type Component struct {
	Name       string
	Background bool
}

// Named returns a regular mixture component.
func Named(name string) Component { return Component{Name: name} }

// Background returns the reserved background component.
func Background() Component {
	return Component{Name: BackgroundName, Background: true}
}

// ComponentsFromNames maps raw component names to tagged Components. The
// reserved background name becomes the background variant.
func ComponentsFromNames(names []string) []Component {
	comps := make([]Component, len(names))
	for i, name := range names {
		if name == BackgroundName {
			comps[i] = Background()
		} else {
			comps[i] = Named(name)
		}
	}
	return comps
}

// SplitBackground partitions components into the background component (nil
// if absent) and the remaining components in their original order. The
// background component is always excluded from generic overlay iteration and
// rendered once, explicitly, before the rest.
func SplitBackground(comps []Component) (bg *Component, rest []Component) {
	rest = make([]Component, 0, len(comps))
	for _, c := range comps {
		if c.Background && bg == nil {
			b := c
			bg = &b
			continue
		}
		rest = append(rest, c)
	}
	return bg, rest
}
