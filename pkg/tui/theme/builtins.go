// ABOUTME: Built-in dark and light themes
// ABOUTME: Provides Builtin(name) lookup and BuiltinNames() enumeration

package theme

var builtins = map[string]*Theme{
	"dark": {
		Name:    "dark",
		Glamour: "dark",
		Palette: Palette{
			Text:   "#e5e7eb",
			Muted:  "#6b7280",
			Accent: "#60a5fa",
			Border: "#374151",
			Error:  "#f87171",

			UserBubble:  "#1f2937",
			ModelBubble: "#111827",

			Widget:      "#4b5563",
			WidgetTitle: "#f3f4f6",
			Locked:      "#9ca3af",

			StatusPlanned:   "#3b82f6",
			StatusWaiting:   "#eab308",
			StatusExecuting: "#a855f7",
			StatusCompleted: "#22c55e",
		},
	},
	"light": {
		Name:    "light",
		Glamour: "light",
		Palette: Palette{
			Text:   "#111827",
			Muted:  "#6b7280",
			Accent: "#2563eb",
			Border: "#d1d5db",
			Error:  "#dc2626",

			UserBubble:  "#e5e7eb",
			ModelBubble: "#f9fafb",

			Widget:      "#9ca3af",
			WidgetTitle: "#1f2937",
			Locked:      "#4b5563",

			StatusPlanned:   "#1d4ed8",
			StatusWaiting:   "#a16207",
			StatusExecuting: "#7e22ce",
			StatusCompleted: "#15803d",
		},
	},
}

// Builtin returns a built-in theme by name, or nil if unknown.
func Builtin(name string) *Theme {
	return builtins[name]
}

// BuiltinNames returns the names of all built-in themes.
func BuiltinNames() []string {
	return []string{"dark", "light"}
}
