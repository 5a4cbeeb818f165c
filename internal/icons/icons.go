// Package icons maps the symbolic icon names stored with content records to
// display descriptors. Unknown names resolve to a placeholder.
package icons

import "sort"

// Icon describes how a symbolic icon is rendered.
type Icon struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Glyph string `json:"glyph"`
}

// Fallback is returned for names that are not in the table.
var Fallback = Icon{Name: "HelpCircle", Label: "Help", Glyph: "❓"}

var table = map[string]Icon{
	"Droplets":    {Name: "Droplets", Label: "Oil & gas", Glyph: "💧"},
	"Factory":     {Name: "Factory", Label: "Refining", Glyph: "🏭"},
	"Truck":       {Name: "Truck", Label: "Logistics", Glyph: "🚚"},
	"TrendingUp":  {Name: "TrendingUp", Label: "Trading", Glyph: "📈"},
	"Wrench":      {Name: "Wrench", Label: "Support", Glyph: "🔧"},
	"Clock":       {Name: "Clock", Label: "Around the clock", Glyph: "🕒"},
	"Globe":       {Name: "Globe", Label: "Global", Glyph: "🌐"},
	"ShieldCheck": {Name: "ShieldCheck", Label: "Safety", Glyph: "🛡️"},
	"Zap":         {Name: "Zap", Label: "Innovation", Glyph: "⚡"},
	"Users":       {Name: "Users", Label: "People", Glyph: "👥"},
}

// Resolve returns the descriptor for name, or Fallback.
func Resolve(name string) Icon {
	if ic, ok := table[name]; ok {
		return ic
	}
	return Fallback
}

// Known reports whether name has its own descriptor.
func Known(name string) bool {
	_, ok := table[name]
	return ok
}

// Names returns every known name in sorted order.
func Names() []string {
	out := make([]string, 0, len(table))
	for n := range table {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
