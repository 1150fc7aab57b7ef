// Package ui is the desktop front end: a scrollable page with the markup
// layer on top and a toolbar of tools and style controls.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"PageMarkup/internal/config"
	"PageMarkup/internal/editor"
	"PageMarkup/internal/viewport"
)

// Extensions are the document types offered by the open dialog.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Shell ties the editor to its window. Every field is owned by the UI
// goroutine; loads and renders run elsewhere and report back through
// fyne.Do.
type Shell struct {
	ctx  context.Context
	ed   *editor.Editor
	view viewport.Adapter
	log  zerolog.Logger

	win    fyne.Window
	page   *PageWidget
	board  *Board
	tools  *Toolbar
	status *widget.Label
	name   string
}

// Run opens the main window and blocks until it is closed.
func Run(ctx context.Context, cfg *config.Config, view viewport.Adapter, log zerolog.Logger) {
	myApp := app.New()
	s := &Shell{
		ctx:  ctx,
		view: view,
		log:  log.With().Str("component", "ui").Logger(),
		win:  myApp.NewWindow("PageMarkup"),
	}
	s.win.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))

	s.page = NewPageWidget()
	s.board = NewBoard(s.page)
	s.ed = editor.New(
		editor.WithIDs(cfg.IDGenerator()),
		editor.WithViewport(view),
		editor.WithScroller(s.board),
		editor.WithLogger(log),
		editor.WithTool(cfg.StartTool()),
	)
	s.page.attach(s.ed)
	s.page.OnChange = s.changed
	s.status = widget.NewLabel("Open a document to start.")

	var toolbar fyne.CanvasObject
	s.tools, toolbar = NewToolbar(s)
	s.win.SetContent(container.NewBorder(toolbar, s.status, nil, nil, s.board))
	s.shortcuts()

	if cfg.Document != "" {
		s.openPath(cfg.Document)
	}
	s.win.ShowAndRun()
}

func (s *Shell) shortcuts() {
	c := s.win.Canvas()
	c.AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) { s.copy() })
	c.AddShortcut(&fyne.ShortcutCut{}, func(fyne.Shortcut) { s.cut() })
	c.AddShortcut(&fyne.ShortcutPaste{}, func(fyne.Shortcut) { s.paste() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyD, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { s.duplicate() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { s.open() })
}

// changed redraws after the editor state moved and brings the controls
// and status line up to date.
func (s *Shell) changed() {
	s.page.Refresh()
	s.tools.Sync()
	s.updateStatus()
}

func (s *Shell) updateStatus() {
	if !s.ed.HasDocument() {
		return
	}
	text := fmt.Sprintf("%s: page %d of %d, zoom %.0f%%, tool %s",
		s.name, s.ed.Page(), s.ed.PageCount(), s.ed.Zoom()*100, s.ed.Tool())
	if sel := s.ed.Markup().Selection(); !sel.IsNone() {
		text += fmt.Sprintf(", %s selected", sel.Kind)
	}
	s.status.SetText(text)
}

func (s *Shell) open() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		s.load(r.URI().Name(), data)
	}, s.win)
	d.SetFilter(storage.NewExtensionFileFilter(Extensions))
	d.Show()
}

func (s *Shell) openPath(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("cannot read document")
		s.status.SetText(err.Error())
		return
	}
	s.load(filepath.Base(path), data)
}

// load decodes data off the UI goroutine. The markup layer is replaced
// only once the document decoded.
func (s *Shell) load(name string, data []byte) {
	s.status.SetText("Loading " + name + "...")
	go func() {
		n, err := s.view.LoadDocument(s.ctx, data)
		fyne.Do(func() {
			if err != nil {
				s.log.Error().Err(err).Str("document", name).Msg("load failed")
				s.status.SetText(fmt.Sprintf("Cannot open %s: %v", name, err))
				return
			}
			s.name = name
			s.ed.DocumentLoaded(n)
			s.board.Reset()
			s.changed()
			s.render()
		})
	}()
}

// render asks the viewport for the current page. Results that arrive
// after a newer request are dropped by the editor.
func (s *Shell) render() {
	t := s.ed.BeginRender()
	go func() {
		p, err := s.view.RenderPage(s.ctx, t.Page, t.Zoom)
		fyne.Do(func() {
			if !s.ed.FinishRender(t, p, err) {
				if err != nil {
					s.status.SetText(fmt.Sprintf("Cannot render page %d: %v", t.Page, err))
				}
				return
			}
			s.page.SetImage(p.Image)
			s.board.Refresh()
		})
	}()
}

func (s *Shell) nextPage() {
	if s.ed.SelectPage(s.ed.Page() + 1) {
		s.render()
	}
}

func (s *Shell) prevPage() {
	if s.ed.SelectPage(s.ed.Page() - 1) {
		s.render()
	}
}

func (s *Shell) zoomIn() {
	if s.ed.SelectZoom(s.ed.Zoom() * editor.ZoomStep) {
		s.render()
	}
}

func (s *Shell) zoomOut() {
	if s.ed.SelectZoom(s.ed.Zoom() / editor.ZoomStep) {
		s.render()
	}
}

func (s *Shell) edit(fn func() bool) {
	if s.ed.Editing() {
		return
	}
	if fn() {
		s.changed()
	}
}

func (s *Shell) copy()      { s.edit(s.ed.Copy) }
func (s *Shell) cut()       { s.edit(s.ed.Cut) }
func (s *Shell) paste()     { s.edit(s.ed.Paste) }
func (s *Shell) duplicate() { s.edit(s.ed.Duplicate) }
func (s *Shell) delete()    { s.edit(s.ed.Delete) }
