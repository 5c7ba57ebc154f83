package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Warn
	Progress
	Cache
	Stream
	Caption
	Quality
	Episode
	Retry
	Config
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "✗",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(・_・;)",
		squares: "🟨",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "@",
		kaomoji: "(・ω・)",
		squares: "🟦",
	},
	Cache: {
		emoji:   "📦",
		nerd:    "",
		plain:   "#",
		kaomoji: "(￣▽￣)",
		squares: "🟫",
	},
	Stream: {
		emoji:   "📺",
		nerd:    "",
		plain:   ">",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟪",
	},
	Caption: {
		emoji:   "💬",
		nerd:    "",
		plain:   "cc",
		kaomoji: "(´･ω･`)",
		squares: "⬜",
	},
	Quality: {
		emoji:   "✨",
		nerd:    "",
		plain:   "hd",
		kaomoji: "(✿◠‿◠)",
		squares: "🟧",
	},
	Episode: {
		emoji:   "🎞️",
		nerd:    "",
		plain:   "*",
		kaomoji: "(^_^)",
		squares: "⬛",
	},
	Retry: {
		emoji:   "🔁",
		nerd:    "",
		plain:   "r",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "🔲",
	},
	Config: {
		emoji:   "⚙️",
		nerd:    "",
		plain:   "~",
		kaomoji: "(¬‿¬)",
		squares: "🔳",
	},
}
