package constant

// PlaylistFn is the global function every playlist script must define.
const PlaylistFn = "Playlist"

// PlaylistTemplate is a Go text/template used by "vlog playlists new" to scaffold a Lua playlist script.
const PlaylistTemplate = `{{ $divider := repeat "-" (plus (max (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias item { url: string, title: string|nil, mime: string|nil, id: string|nil, headers: table|nil }


----- IMPORTS -----
--- END IMPORTS ---



----- MAIN -----

--- Builds the ordered list of media to play.
-- @return item[] Table of media items
function {{ .PlaylistFn }}()
	return {}
end

--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`
