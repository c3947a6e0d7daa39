package media

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/vlog-app/vlog/filesystem"
)

// ErrUnresolvable is returned for references that can never be handed to an engine.
var ErrUnresolvable = errors.New("unresolvable media reference")

func unresolvable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnresolvable, fmt.Sprintf(format, args...))
}

// Resolve validates ref and returns a copy whose locator the engine can open directly.
// Remote locators keep their URL. Local paths, including file:// URLs, become clean absolute paths.
func Resolve(ref Reference) (Reference, error) {
	locator := strings.TrimSpace(ref.Locator)
	if locator == "" {
		return ref, unresolvable("empty locator")
	}

	if strings.ContainsAny(locator, "\x00\n\r\t") {
		return ref, unresolvable("control characters in %q", locator)
	}

	// would be parsed as an option by the engine
	if strings.HasPrefix(locator, "-") {
		return ref, unresolvable("locator %q looks like a flag", locator)
	}

	if strings.Contains(locator, "://") {
		u, err := url.Parse(locator)
		if err != nil {
			return ref, unresolvable("%s", err)
		}

		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			if u.Host == "" {
				return ref, unresolvable("missing host in %q", locator)
			}
			ref.Locator = locator
			return ref, nil
		case "file":
			locator = u.Path
		default:
			return ref, unresolvable("unsupported scheme %q", u.Scheme)
		}
	}

	abs, err := filepath.Abs(locator)
	if err != nil {
		return ref, unresolvable("%s", err)
	}

	info, err := filesystem.API().Stat(abs)
	if err != nil {
		return ref, unresolvable("%s", err)
	}
	if info.IsDir() {
		return ref, unresolvable("%q is a directory", abs)
	}

	ref.Locator = abs
	return ref, nil
}
