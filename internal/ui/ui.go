// Package ui is the fyne desktop front end. All state lives in the
// app.Controller; widgets here only mirror it and forward user actions.
package ui

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"example.com/dmztools/internal/app"
)

const (
	appID        = "com.dmztools.desktop"
	fetchTimeout = 2 * time.Minute
)

// Run opens the main window and blocks until it is closed.
func Run(ctrl *app.Controller, log *slog.Logger) {
	a := fyneapp.NewWithID(appID)
	w := a.NewWindow("DMZTools")
	w.SetFixedSize(true)
	if res := loadIcon(); res != nil {
		w.SetIcon(res)
	}

	description := widget.NewLabel("DMZTools merges PDFs and builds shareable QR codes entirely on your PC.")
	description.Wrapping = fyne.TextWrapWord
	description.Alignment = fyne.TextAlignCenter

	tabs := container.NewAppTabs(
		container.NewTabItem("Merge PDFs", newMergeTab(ctrl, w, log)),
		container.NewTabItem("Create QR", newQRTab(ctrl, w)),
	)

	w.SetContent(container.NewBorder(description, nil, nil, nil, tabs))
	w.Resize(fyne.NewSize(520, 440))
	w.ShowAndRun()
}

// mergeTab mirrors the controller's selection in a check list.
type mergeTab struct {
	ctrl  *app.Controller
	win   fyne.Window
	log   *slog.Logger
	files *widget.CheckGroup
}

func newMergeTab(ctrl *app.Controller, w fyne.Window, log *slog.Logger) fyne.CanvasObject {
	t := &mergeTab{ctrl: ctrl, win: w, log: log}
	t.files = widget.NewCheckGroup(nil, nil)
	ctrl.OnChange(t.render)

	addFile := widget.NewButton("Add PDF…", t.pickFile)
	addFolder := widget.NewButton("Add Folder…", t.pickFolder)
	remove := widget.NewButton("Remove Selected", func() {
		ctrl.RemoveSelected(t.checked()...)
	})
	clearBtn := widget.NewButton("Clear List", ctrl.ClearFiles)
	up := widget.NewButton("Move Up", func() { t.moveChecked(-1) })
	down := widget.NewButton("Move Down", func() { t.moveChecked(1) })

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://… (PDF link or download page)")
	fetchBtn := widget.NewButton("Add from URL", func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		n := ctrl.FetchFile(ctx, urlEntry.Text)
		if !n.Failed() {
			urlEntry.SetText("")
		}
		showNotice(w, n)
	})

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Output name (optional)")
	mergeBtn := widget.NewButton("Merge PDFs", func() {
		showNotice(w, ctrl.Merge(nameEntry.Text))
	})
	mergeBtn.Importance = widget.HighImportance

	list := container.NewVScroll(t.files)
	list.SetMinSize(fyne.NewSize(460, 150))

	return container.NewVBox(
		widget.NewLabel("PDF files (ordered as they will appear):"),
		list,
		container.NewGridWithColumns(3, addFile, addFolder, remove),
		container.NewGridWithColumns(3, up, down, clearBtn),
		container.NewBorder(nil, nil, nil, fetchBtn, urlEntry),
		nameEntry,
		widget.NewLabel("Defaults to merged-<timestamp>.pdf in the first PDF's folder."),
		mergeBtn,
	)
}

// render rebuilds the check list from the controller's entries.
func (t *mergeTab) render(entries []string) {
	t.files.Options = entries
	t.files.Selected = nil
	t.files.Refresh()
}

// checked maps ticked labels back to list positions.
func (t *mergeTab) checked() []int {
	pos := make(map[string]int, len(t.files.Options))
	for i, o := range t.files.Options {
		pos[o] = i
	}
	var out []int
	for _, s := range t.files.Selected {
		if i, ok := pos[s]; ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// moveChecked shifts the single ticked entry by delta and keeps it ticked.
func (t *mergeTab) moveChecked(delta int) {
	sel := t.checked()
	if len(sel) != 1 {
		return
	}
	to := sel[0] + delta
	if t.ctrl.MoveFile(sel[0], to) {
		t.files.SetSelected([]string{t.files.Options[to]})
	}
}

func (t *mergeTab) pickFile() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		t.ctrl.AddFiles(path)
	}, t.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf", ".PDF"}))
	d.Show()
}

func (t *mergeTab) pickFolder() {
	dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if uri == nil {
			return
		}
		files, err := listPDFs(uri.Path())
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		t.log.Debug("folder added", "dir", uri.Path(), "pdfs", len(files))
		t.ctrl.AddFiles(files...)
	}, t.win).Show()
}

func newQRTab(ctrl *app.Controller, w fyne.Window) fyne.CanvasObject {
	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com/shareable-link")
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Output name (optional)")

	gen := widget.NewButton("Generate QR", func() {
		showNotice(w, ctrl.GenerateQR(urlEntry.Text, nameEntry.Text))
	})
	gen.Importance = widget.HighImportance

	form := widget.NewForm(
		widget.NewFormItem("URL", urlEntry),
		widget.NewFormItem("Output name", nameEntry),
	)
	return container.NewVBox(
		form,
		widget.NewLabel("Defaults to qr-<timestamp>.png in this folder."),
		gen,
	)
}

func showNotice(w fyne.Window, n app.Notice) {
	noticeDialog(w, n).Show()
}

// noticeDialog keeps the notice title on failures too; dialog.NewError
// would replace it with a generic "Error".
func noticeDialog(w fyne.Window, n app.Notice) dialog.Dialog {
	if !n.Failed() {
		return dialog.NewInformation(n.Title, n.Message, w)
	}
	return dialog.NewCustom(n.Title, "OK", errorBody(n.Message), w)
}

func errorBody(msg string) *fyne.Container {
	label := widget.NewLabel(msg)
	label.Wrapping = fyne.TextWrapWord
	return container.NewBorder(nil, nil, widget.NewIcon(theme.ErrorIcon()), nil, label)
}

// listPDFs returns the PDFs directly inside dir, sorted by name.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// loadIcon looks for a window icon next to the executable.
func loadIcon() fyne.Resource {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	for _, name := range []string{"logo.png", "logo.ico"} {
		p := filepath.Join(filepath.Dir(exe), name)
		if st, err := os.Stat(p); err != nil || !st.Mode().IsRegular() {
			continue
		}
		if res, err := fyne.LoadResourceFromPath(p); err == nil {
			return res
		}
	}
	return nil
}
