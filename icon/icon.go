// Package icon renders UI symbols in the variant selected by icons.variant.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists every supported icons.variant value.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Play Icon = iota + 1
	Pause
	Folder
	Video
	Lock
	Fullscreen
	Fail
	Success
	Progress
	Mark
	Lua
)

var icons = map[Icon]*iconDef{
	Play:       {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "ᕕ( ᐛ )ᕗ", squares: "▶"},
	Pause:      {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(￣o￣) zzZ", squares: "⏸"},
	Folder:     {emoji: "📁", nerd: "\uf07b", plain: "+", kaomoji: "(∩^o^)⊃", squares: "▣"},
	Video:      {emoji: "🎞️", nerd: "\uf03d", plain: "-", kaomoji: "(⌐■_■)", squares: "▢"},
	Lock:       {emoji: "🔒", nerd: "\uf023", plain: "#", kaomoji: "(｀・ω・´)", squares: "■"},
	Fullscreen: {emoji: "⛶", nerd: "\uf065", plain: "[]", kaomoji: "(ノ°▽°)ノ", squares: "⛶"},
	Fail:       {emoji: "💀", nerd: "\uf00d", plain: "X", kaomoji: "(×_×)", squares: "🟥"},
	Success:    {emoji: "🎉", nerd: "\uf00c", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Progress:   {emoji: "⏳", nerd: "\uf110", plain: "~", kaomoji: "(๑•̀ㅁ•́ฅ)", squares: "🟦"},
	Mark:       {emoji: "⭐", nerd: "\uf005", plain: "*", kaomoji: "(★‿★)", squares: "🟨"},
	Lua:        {emoji: "🌙", nerd: "\ue620", plain: "lua", kaomoji: "(◕‿◕)", squares: "🟪"},
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}
