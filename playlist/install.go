package playlist

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/network"
	"github.com/vlog-app/vlog/util"
	"github.com/vlog-app/vlog/where"
)

// sourceTag marks the header line holding the URL a script was installed from.
const sourceTag = "-- @source"

// Install downloads a script into the playlists directory. An empty name is derived
// from the URL. Installing identical content again is a no-op and reports updated=false.
func Install(ctx context.Context, rawURL, name string) (target string, updated bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("invalid script url %q", rawURL)
	}

	if name == "" {
		name = util.FileStem(path.Base(u.Path))
	}
	name = util.SanitizeFilename(strings.TrimSuffix(name, ScriptExt))
	if name == "" {
		return "", false, fmt.Errorf("cannot derive a playlist name from %q", rawURL)
	}

	resp, err := network.Fetch(ctx, http.MethodGet, rawURL, nil, "")
	if err != nil {
		return "", false, err
	}
	if resp.Status != http.StatusOK {
		return "", false, fmt.Errorf("fetch %s: status %d", rawURL, resp.Status)
	}

	body := withSource(resp.Body, rawURL)
	target = filepath.Join(where.Playlists(), name+ScriptExt)

	if current, err := filesystem.API().ReadFile(target); err == nil && sha256.Sum256(current) == sha256.Sum256([]byte(body)) {
		return target, false, nil
	}

	tmp := target + ".tmp"
	if err := filesystem.API().WriteFile(tmp, []byte(body), 0o644); err != nil {
		return "", false, err
	}
	if err := filesystem.API().Rename(tmp, target); err != nil {
		_ = filesystem.API().Remove(tmp)
		return "", false, err
	}

	log.Infof("installed playlist script %s from %s", name, rawURL)
	return target, true, nil
}

// Update refetches every installed script that records its source. Failures are
// logged and skipped. It returns the names of the scripts that changed.
func Update(ctx context.Context) ([]string, error) {
	scripts, err := Installed()
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, script := range scripts {
		source, ok := sourceOf(script.Path())
		if !ok {
			continue
		}

		_, updated, err := Install(ctx, source, script.Name())
		if err != nil {
			log.WithFields(log.Fields{"script": script.Name()}).Warn("update playlist script: ", err)
			continue
		}
		if updated {
			changed = append(changed, script.Name())
		}
	}
	return changed, nil
}

func withSource(body, rawURL string) string {
	if _, ok := scanSource(body); ok {
		return body
	}
	return fmt.Sprintf("%s %s\n%s", sourceTag, rawURL, body)
}

func sourceOf(path string) (string, bool) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return "", false
	}
	return scanSource(string(data))
}

// scanSource looks for the source tag among the leading comment lines.
func scanSource(body string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, sourceTag); ok {
			source := strings.TrimSpace(rest)
			return source, source != ""
		}
		if line != "" && !strings.HasPrefix(line, "--") {
			break
		}
	}
	return "", false
}
