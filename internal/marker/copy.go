package marker

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultRevertAfter is how long a copy result stays visible.
const DefaultRevertAfter = 2 * time.Second

// ErrNoClipboard is returned when no clipboard is available.
var ErrNoClipboard = errors.New("clipboard unavailable")

// Clipboard receives exported text.
type Clipboard interface {
	WriteText(text string) error
}

// CopyStatus is the transient result shown next to the copy action.
type CopyStatus int

const (
	CopyIdle CopyStatus = iota
	CopyCopied
	CopyFailed
)

func (s CopyStatus) String() string {
	switch s {
	case CopyCopied:
		return "copied"
	case CopyFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Copier exports markers to a clipboard and keeps a status flag that
// reverts to CopyIdle after a delay. A new copy cancels the pending revert
// of the previous one.
type Copier struct {
	mu          sync.Mutex
	clipboard   Clipboard
	revertAfter time.Duration
	status      CopyStatus
	timer       *time.Timer
	generation  uint64
	onChange    func(CopyStatus)
}

// NewCopier creates a copier. A non-positive delay uses DefaultRevertAfter.
func NewCopier(clipboard Clipboard, revertAfter time.Duration) *Copier {
	if revertAfter <= 0 {
		revertAfter = DefaultRevertAfter
	}
	return &Copier{clipboard: clipboard, revertAfter: revertAfter}
}

// OnChange registers a callback for status changes. The revert callback
// runs on a timer goroutine.
func (c *Copier) OnChange(fn func(CopyStatus)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetClipboard replaces the clipboard used by later copies.
func (c *Copier) SetClipboard(clipboard Clipboard) {
	c.mu.Lock()
	c.clipboard = clipboard
	c.mu.Unlock()
}

// Status returns the current copy status.
func (c *Copier) Status() CopyStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Copy writes the JSON export of markers to the clipboard. The status
// becomes CopyCopied on success and CopyFailed otherwise; either way it
// reverts to CopyIdle after the configured delay.
func (c *Copier) Copy(markers []Marker) error {
	c.mu.Lock()
	clipboard := c.clipboard
	c.mu.Unlock()

	text, err := ExportString(markers)
	if err == nil {
		if clipboard == nil {
			err = ErrNoClipboard
		} else if werr := clipboard.WriteText(text); werr != nil {
			err = fmt.Errorf("write clipboard: %w", werr)
		}
	}

	status := CopyCopied
	if err != nil {
		status = CopyFailed
	}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.generation++
	gen := c.generation
	c.status = status
	c.timer = time.AfterFunc(c.revertAfter, func() { c.revert(gen) })
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(status)
	}
	return err
}

// Stop cancels any pending revert and resets the status to CopyIdle
// without notifying.
func (c *Copier) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	c.status = CopyIdle
}

func (c *Copier) revert(gen uint64) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.status = CopyIdle
	c.timer = nil
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(CopyIdle)
	}
}
