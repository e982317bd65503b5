package icon

// Icon identifies a registered UI symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Download
	Video
)

// icons is the global registry mapping identifiers to their per-variant representations.
var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "+",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "x",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "*",
		kaomoji: "(￣ー￣)ゞ",
		squares: "🟨",
	},
	Download: {
		emoji:   "⬇️",
		nerd:    "",
		plain:   "v",
		kaomoji: "(┐「ε:)_",
		squares: "🟦",
	},
	Video: {
		emoji:   "🎬",
		nerd:    "",
		plain:   ">",
		kaomoji: "(・ω・)ノ",
		squares: "🟪",
	},
}
