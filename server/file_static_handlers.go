package server

import (
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

//go:embed static/*
var staticFiles embed.FS

// staticRoot serves static/ at the site root, so /css/app.css reads
// static/css/app.css.
var staticRoot = embeddedDir(staticFiles, "static")

// embeddedDir roots an embedded tree at dir. The directories are fixed at
// build time, so a failure here is a programming error.
func embeddedDir(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("embedded directory %q: %v", dir, err))
	}
	return sub
}

// streamStaticFile writes one embedded asset. A missing file is returned as
// an error before anything is written.
func streamStaticFile(w http.ResponseWriter, name string) error {
	data, err := fs.ReadFile(staticRoot, name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	w.Header().Set("Content-Type", staticContentType(name, data))
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s content: %w", name, err)
	}
	return nil
}

// staticContentType picks the type by extension, sniffing unknown ones.
// Text types default to UTF-8.
func staticContentType(name string, data []byte) string {
	ctype := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	if strings.HasPrefix(ctype, "text/") && !strings.Contains(strings.ToLower(ctype), "charset=") {
		ctype += "; charset=utf-8"
	}
	return ctype
}
