package examples

import "github.com/mash-protocol/telepath-go/pkg/telepath"

// Type names registered by RegisterAll.
const (
	TypePoint    = "Point"
	TypeWidget   = "Widget"
	TypeRichText = "RichText"
	TypeDate     = "Date"
)

// RegisterAll registers every example type in reg.
func RegisterAll(reg *telepath.Registry) {
	telepath.RegisterFunc(reg, TypePoint, NewPoint)
	telepath.RegisterFunc(reg, TypeWidget, NewWidget)
	telepath.RegisterFunc(reg, TypeRichText, NewRichText)
	telepath.RegisterFunc(reg, TypeDate, NewDate)
}

// RegisterGeneric registers a Record constructor for every name not yet
// registered in reg, and returns the names it added.
func RegisterGeneric(reg *telepath.Registry, names ...string) []string {
	var added []string
	for _, name := range names {
		if reg.Has(name) {
			continue
		}
		reg.Register(name, RecordConstructor(name))
		added = append(added, name)
	}
	return added
}
