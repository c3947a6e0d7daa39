package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/color"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Vlog + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON includes the current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case map[string]string:
		return "map[string]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func register(k string, v any, desc string) {
	if _, exists := Default[k]; exists {
		panic("duplicate config key: " + k)
	}
	Default[k] = Field{Key: k, Value: v, Description: desc}
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.LibraryRoots, []string{}, "Directories scanned for videos.\nThe platform videos directory is used when empty")
	register(key.LibraryExtensions, []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".m4v", ".3gp", ".ts"}, "File extensions treated as videos")
	register(key.LibraryShowHidden, false, "Include hidden files and directories")
	register(key.LibrarySort, "name", "Video ordering.\nAvailable options are: name, modified, size")
	register(key.LibraryReadTags, true, "Read embedded titles from mp4 and mkv containers")
	register(key.PlayerEngine, "mpv", "Playback engine executable")
	register(key.PlayerEngineArgs, []string{}, "Extra arguments passed to the playback engine")
	register(key.PlayerSampleInterval, 1000, "Position sampling period while playing, in milliseconds")
	register(key.PlayerSeekIncrement, 10000, "Seek step for the forward and backward controls, in milliseconds")
	register(key.PlayerAutoplay, true, "Start playback as soon as media is loaded")
	register(key.HistoryResume, true, "Resume videos from the last saved position")
	register(key.HistorySave, true, "Save the position when playback ends")
	register(key.PlaylistPresets, []string{
		"https://storage.googleapis.com/exoplayer-test-media-0/BigBuckBunny_320x180.mp4",
		"https://html5demos.com/assets/dizzy.mp4",
	}, "Network media played by \"vlog play --presets\"")
	register(key.SearchShowQuerySuggestions, true, "Show filter suggestions when searching the library")
	register(key.TUIItemSpacing, 1, "Spacing between items in the TUI")
	register(key.TUIShowPaths, true, "Show file paths under list items")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, false, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
