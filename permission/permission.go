// Package permission gates library access on every configured root being readable.
package permission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/log"
)

// ErrPermissionDenied is matched by every *DeniedError.
var ErrPermissionDenied = errors.New("permission denied")

// DeniedError lists the roots that could not be read.
type DeniedError struct {
	Roots  []string
	Causes []error
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: cannot read %s", ErrPermissionDenied, strings.Join(e.Roots, ", "))
}

func (e *DeniedError) Unwrap() []error {
	return append([]error{ErrPermissionDenied}, e.Causes...)
}

// Gate checks read access to a fixed set of roots. Checks can be repeated, which is
// how the user asks for access again.
type Gate struct {
	fs    afero.Fs
	roots []string

	mu       sync.Mutex
	granted  bool
	attempts int
}

func NewGate(fs afero.Fs, roots []string) *Gate {
	return &Gate{fs: fs, roots: lo.Uniq(roots)}
}

func (g *Gate) Roots() []string { return g.roots }

// Granted reports the outcome of the last check.
func (g *Gate) Granted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.granted
}

// Attempts counts the checks made so far.
func (g *Gate) Attempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempts
}

// Check probes every root. It returns a *DeniedError naming each unreadable root.
func (g *Gate) Check(ctx context.Context) error {
	denied := &DeniedError{}

	for _, root := range g.roots {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := filesystem.Probe(g.fs, root); err != nil {
			log.WithFields(log.Fields{"root": root}).Warn("root is not readable: ", err)
			denied.Roots = append(denied.Roots, root)
			denied.Causes = append(denied.Causes, fmt.Errorf("%s: %w", root, err))
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.attempts++
	g.granted = len(denied.Roots) == 0
	if !g.granted {
		return denied
	}
	return nil
}
