package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/hupe1980/multibuffer"
	"github.com/hupe1980/multibuffer/buffer"
)

type renderer struct {
	out    io.Writer
	tty    bool
	header *color.Color
	gutter *color.Color
	footer *color.Color
}

func newRenderer(out io.Writer, mode string) (*renderer, error) {
	r := &renderer{
		out:    out,
		header: color.New(color.FgCyan, color.Bold),
		gutter: color.New(color.FgHiBlack),
		footer: color.New(color.Faint),
	}

	switch mode {
	case "auto":
		if f, ok := out.(*os.File); ok {
			r.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	case "always":
		r.tty = true
	case "never":
	default:
		return nil, fmt.Errorf("invalid --color %q", mode)
	}

	for _, c := range []*color.Color{r.header, r.gutter, r.footer} {
		if r.tty {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r, nil
}

// render prints every excerpt under a path:rows header with line numbers,
// followed by a one-line summary.
func (r *renderer) render(snap multibuffer.Snapshot) error {
	buffers := map[buffer.ID]struct{}{}
	for e := range snap.Excerpts() {
		buffers[e.Key.BufferID] = struct{}{}

		first := e.Snapshot.OffsetToPoint(e.Key.Range.Start).Row + 1
		last := e.Snapshot.OffsetToPoint(e.Key.Range.End).Row + 1
		path := e.Key.Path
		if path == "" {
			path = "<untitled>"
		}
		if _, err := r.header.Fprintf(r.out, "%s:%d-%d\n", path, first, last); err != nil {
			return err
		}

		for i, line := range strings.Split(e.Text(), "\n") {
			if _, err := r.gutter.Fprintf(r.out, "%5d │ ", first+i); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(r.out, line); err != nil {
				return err
			}
		}
	}

	_, err := r.footer.Fprintf(r.out, "%s excerpts from %s files, %s\n",
		humanize.Comma(int64(snap.ExcerptCount())),
		humanize.Comma(int64(len(buffers))),
		humanize.Bytes(uint64(snap.Len())))
	return err
}

// clear erases the terminal before a redraw. Output that is not a terminal
// gets a separator instead.
func (r *renderer) clear() {
	if r.tty {
		fmt.Fprint(r.out, "\x1b[H\x1b[2J")
		return
	}
	fmt.Fprintln(r.out, "---")
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
