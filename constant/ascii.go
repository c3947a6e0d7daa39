package constant

import _ "embed"

// AsciiArtLogo is the banner printed in the root command help.
//
//go:embed ascii.txt
var AsciiArtLogo string
