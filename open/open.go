// Package open hands files and folders to the desktop's default application.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/filesystem"
)

// Start opens target with its default handler without waiting for it.
func Start(target string) error {
	cmd, ok := command(runtime.GOOS, target)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// Reveal opens the folder holding path in the file manager. Directories are opened as they are.
func Reveal(path string) error {
	return Start(folderOf(path))
}

func folderOf(path string) string {
	if isDir, err := filesystem.API().IsDir(path); err == nil && isDir {
		return path
	}
	return filepath.Dir(path)
}

func command(goos, target string) (*exec.Cmd, bool) {
	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", target), true
	case constant.Darwin:
		return exec.Command("open", target), true
	case constant.Linux:
		return exec.Command("xdg-open", target), true
	case constant.Android:
		return exec.Command("termux-open", target), true
	default:
		return nil, false
	}
}
