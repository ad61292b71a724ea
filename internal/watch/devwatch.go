// Package watch implements the two external event sources the rescan
// orchestrator reacts to: new/removed i2c device nodes, and chassis power
// transitions.
package watch

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DevNodeWatcher watches a directory for i2c-N device nodes being
// created, renamed in, or removed, and reports each such event on a
// channel. It is backed directly by inotify since no filesystem-watch
// library appears anywhere in the dependency stack this daemon draws on.
type DevNodeWatcher struct {
	fd      int
	wd      int
	dir     string
	events  chan struct{}
	closeCh chan struct{}
}

// NewDevNodeWatcher opens an inotify instance watching dir for the
// creation, rename and deletion of entries.
func NewDevNodeWatcher(dir string) (*DevNodeWatcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("watch: inotify_init: %w", err)
	}

	mask := uint32(unix.IN_CREATE | unix.IN_DELETE | unix.IN_MOVED_TO | unix.IN_MOVED_FROM)
	wd, err := unix.InotifyAddWatch(fd, dir, mask)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("watch: inotify_add_watch %s: %w", dir, err)
	}

	w := &DevNodeWatcher{
		fd:      fd,
		wd:      wd,
		dir:     dir,
		events:  make(chan struct{}, 1),
		closeCh: make(chan struct{}),
	}
	go w.readLoop()
	return w, nil
}

// Events fires (coalesced, at most one pending) whenever an entry whose
// name begins with "i2c-"
// under dir is created, renamed in, or removed.
func (w *DevNodeWatcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher and releases its inotify file descriptor.
func (w *DevNodeWatcher) Close() error {
	close(w.closeCh)
	return unix.Close(w.fd)
}

func (w *DevNodeWatcher) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(w.fd, buf)
		if err != nil {
			return
		}
		if n <= 0 {
			continue
		}

		relevant := false
		offset := 0
		for offset+unix.SizeofInotifyEvent <= n {
			raw := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameLen := int(raw.Len)
			nameStart := offset + unix.SizeofInotifyEvent
			name := ""
			if nameLen > 0 {
				name = cString(buf[nameStart : nameStart+nameLen])
			}
			if strings.HasPrefix(name, "i2c-") {
				relevant = true
			}
			offset = nameStart + nameLen
		}

		if !relevant {
			continue
		}

		select {
		case w.events <- struct{}{}:
		default:
		}
	}
}

// cString trims the trailing NUL padding inotify uses to align the name
// field to InotifyEvent's struct size.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
