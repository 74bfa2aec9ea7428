// Package web serves a small local UI for picking PDFs under a root folder,
// merging them and generating QR codes.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"example.com/dmztools/internal/apperr"
	"example.com/dmztools/internal/fetch"
	"example.com/dmztools/internal/logging"
	"example.com/dmztools/internal/merge"
	"example.com/dmztools/internal/outname"
	"example.com/dmztools/internal/qr"
)

const (
	OutSubDir   = "_merged"    // merged PDFs and QR codes, under the root
	FetchSubDir = "_downloads" // PDFs fetched from URLs, under the root
	maxFileScan = 100000       // safety cap
)

// FileItem is a PDF discovered under the root.
type FileItem struct {
	Path string // absolute path
	Rel  string // slash separated, relative to the root
	Size int64
	Mod  time.Time
}

// Server holds the settings shared by all handlers. Handlers never mutate
// it, so one Server can serve concurrent requests.
type Server struct {
	Root      string
	MergeBase string
	QRBase    string
	QR        qr.Options
	Resolver  outname.Resolver
	Fetcher   *fetch.Client
	Log       *slog.Logger
}

// New returns a server for root with default names.
func New(root string) *Server {
	return &Server{
		Root:      root,
		MergeBase: outname.DefaultMergeBase,
		QRBase:    outname.DefaultQRBase,
		Fetcher:   fetch.New(),
		Log:       logging.Discard(),
	}
}

// OutDir is where merge and QR results are written.
func (s *Server) OutDir() string { return filepath.Join(s.Root, OutSubDir) }

// FetchDir is where downloaded PDFs are stored.
func (s *Server) FetchDir() string { return filepath.Join(s.Root, FetchSubDir) }

// Handler wires every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /merge", s.handleMerge)
	mux.HandleFunc("POST /qr", s.handleQR)
	mux.HandleFunc("POST /fetch", s.handleFetch)
	mux.HandleFunc("GET /file", s.handleFile)
	mux.Handle("GET /download/", http.StripPrefix("/download/",
		http.FileServer(http.Dir(s.OutDir())),
	))
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	files, err := ScanPDFs(s.Root)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.Log.Debug("scan", "root", s.Root, "pdfs", len(files))
	sort.Slice(files, func(i, j int) bool { return files[i].Mod.After(files[j].Mod) })
	data := struct {
		Files        []FileItem
		OutDir, Root string
	}{files, s.OutDir(), s.Root}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		s.Log.Error("render index", "error", err)
	}
}

type mergeRequest struct {
	Files []string `json:"files"` // relative to the root
	Out   string   `json:"out"`
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var in mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	// the page is a set of checkboxes, so a file is merged at most once
	req := merge.Request{}
	seen := make(map[string]bool, len(in.Files))
	for _, rel := range in.Files {
		ap, ok := s.resolve(rel)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid path: "+rel)
			return
		}
		if seen[ap] {
			continue
		}
		seen[ap] = true
		req.Inputs = append(req.Inputs, ap)
	}
	if err := req.Validate(); err != nil {
		s.writeFailure(w, err)
		return
	}

	out, err := s.Resolver.Resolve(in.Out, "pdf", s.MergeBase, s.OutDir())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	req.Output = out

	res, err := merge.Run(req)
	if err != nil {
		s.Log.Error("merge failed", "inputs", len(req.Inputs), "error", err)
		s.writeFailure(w, err)
		return
	}
	s.Log.Info("merged", "inputs", len(req.Inputs), "pages", res.Pages, "output", res.Output)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       1,
		"download": downloadURL(res.Output),
		"pages":    res.Pages,
	})
}

type qrRequest struct {
	URL string `json:"url"`
	Out string `json:"out"`
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	var in qrRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if strings.TrimSpace(in.URL) == "" {
		writeError(w, http.StatusBadRequest, "enter the URL to encode")
		return
	}
	out, err := s.Resolver.Resolve(in.Out, "png", s.QRBase, s.OutDir())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if err := qr.Generate(in.URL, out, s.QR); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.Log.Info("qr written", "output", out)
	writeJSON(w, http.StatusOK, map[string]any{"ok": 1, "download": downloadURL(out)})
}

type fetchRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var in fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	u := strings.TrimSpace(in.URL)
	if pu, err := url.Parse(u); err != nil || (pu.Scheme != "http" && pu.Scheme != "https") {
		writeError(w, http.StatusBadRequest, "enter an http(s) URL")
		return
	}
	path, err := s.Fetcher.Into(r.Context(), u, s.FetchDir())
	if err != nil {
		s.Log.Warn("fetch failed", "url", u, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	rel, _ := filepath.Rel(s.Root, path)
	s.Log.Info("fetched", "url", u, "path", path)
	writeJSON(w, http.StatusOK, map[string]any{"ok": 1, "rel": filepath.ToSlash(rel)})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("rel")
	if rel == "" {
		http.Error(w, "missing rel", http.StatusBadRequest)
		return
	}
	ap, ok := s.resolve(rel)
	if !ok {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, ap)
}

// resolve maps a root-relative path to an absolute one, refusing anything
// that escapes the root.
func (s *Server) resolve(rel string) (string, bool) {
	root := abs(s.Root)
	ap := abs(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if !strings.HasPrefix(ap+string(os.PathSeparator), root+string(os.PathSeparator)) || ap == root {
		return "", false
	}
	return ap, true
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var (
		ve *apperr.ValidationError
		me *apperr.MissingFileError
	)
	switch {
	case errors.Is(err, apperr.ErrTooFewInputs):
		writeError(w, http.StatusBadRequest, "select at least 2 files")
	case errors.As(err, &me):
		missing := make([]string, len(me.Paths))
		for i, p := range me.Paths {
			missing[i] = s.rel(p)
		}
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "file not found: " + strings.ReplaceAll((&apperr.MissingFileError{Paths: missing}).Listing(), "\n", ", "),
			"missing": missing,
		})
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) rel(p string) string {
	r, err := filepath.Rel(abs(s.Root), p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(r)
}

// ScanPDFs walks root and collects every .pdf file. Dot files are skipped.
func ScanPDFs(root string) ([]FileItem, error) {
	var files []FileItem
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".pdf") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		files = append(files, FileItem{
			Path: path,
			Rel:  filepath.ToSlash(rel),
			Size: info.Size(),
			Mod:  info.ModTime(),
		})
		if len(files) >= maxFileScan {
			return filepath.SkipAll
		}
		return nil
	})
	return files, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func downloadURL(path string) string {
	return "/download/" + url.PathEscape(filepath.Base(path))
}

func abs(p string) string {
	a, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return a
}
