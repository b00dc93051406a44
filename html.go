/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"embed"
	"fmt"
	"html"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/mediabox/media"
	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*
var assets embed.FS

// toolPage wraps body in the shared shell: menu, notice popup, and script.
func toolPage(cfg *Config, title, body string) string {
	var page strings.Builder

	page.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	page.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	page.WriteString(getFavicon(cfg))
	page.WriteString(fmt.Sprintf(`<link rel="stylesheet" href="%s/assets/mediabox.css">`, cfg.prefix))
	page.WriteString(fmt.Sprintf(`<script src="%s/assets/mediabox.js" defer></script>`, cfg.prefix))
	page.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	page.WriteString(fmt.Sprintf(`<body data-prefix="%s"><nav><a href="%s/">mediabox</a>`, html.EscapeString(cfg.prefix), cfg.prefix))

	for _, item := range menuList {
		page.WriteString(fmt.Sprintf(`<a id="%s" href="%s%s">%s</a>`,
			item.ID, cfg.prefix, item.Path, html.EscapeString(item.Title)))
	}

	page.WriteString(`</nav><div id="notice" hidden><span></span><button type="button">&times;</button></div><main>`)
	page.WriteString(fmt.Sprintf("<h1>%s</h1>", html.EscapeString(title)))
	page.WriteString(body)
	page.WriteString(`</main></body></html>`)

	return page.String()
}

func homeBody(cfg *Config) string {
	var body strings.Builder

	body.WriteString(`<ul class="menu">`)
	for _, item := range menuList {
		body.WriteString(fmt.Sprintf(`<li><a href="%s%s">%s</a> <a class="qr" href="%s/qr?path=%s">QR</a></li>`,
			cfg.prefix, item.Path, html.EscapeString(item.Title), cfg.prefix, item.Path))
	}
	body.WriteString(`</ul>`)

	return body.String()
}

func mediaInfoForm(cfg *Config) string {
	return `<form class="tool" data-result="json" enctype="multipart/form-data">` +
		`<input type="file" name="file" required>` +
		fmt.Sprintf(`<small>Up to %s</small>`, humanReadableSize(cfg.maxUploadBytes)) +
		`<button type="submit">Inspect</button></form><pre id="result"></pre>`
}

func convertorForm(cfg *Config) string {
	var options strings.Builder
	for _, f := range media.Formats {
		options.WriteString(fmt.Sprintf(`<option value="%s">%s</option>`, f, strings.ToUpper(string(f))))
	}

	return `<form class="tool" data-result="download" enctype="multipart/form-data">` +
		`<input type="file" name="file" accept="image/*" required>` +
		`<label>Format <select name="format">` + options.String() + `</select></label>` +
		fmt.Sprintf(`<label>Quality <input type="number" name="quality" min="1" max="100" value="%d"></label>`, media.DefaultQuality) +
		`<label>Width <input type="number" name="width" min="0" value="0"></label>` +
		`<label>Height <input type="number" name="height" min="0" value="0"></label>` +
		`<button type="submit">Convert</button></form><pre id="result"></pre>`
}

func writePage(cfg *Config, w http.ResponseWriter, r *http.Request, errs chan<- error, page string) {
	startTime := time.Now()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	securityHeaders(cfg, w)

	written, err := io.WriteString(w, page)
	if err != nil {
		errs <- err

		return
	}

	logf(cfg, "SERVE: %s (%s) to %s in %s",
		r.URL.Path,
		humanReadableSize(int64(written)),
		realIP(r),
		time.Since(startTime).Round(time.Microsecond),
	)
}

func serveHomePage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writePage(cfg, w, r, errs, toolPage(cfg, "mediabox", homeBody(cfg)))
	}
}

func serveToolPage(cfg *Config, t tool, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writePage(cfg, w, r, errs, toolPage(cfg, t.item.Title, t.form(cfg)))
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveAssets(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		fname := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, cfg.prefix), "/")

		data, err := assets.ReadFile(fname)
		if err != nil {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		switch strings.ToLower(filepath.Ext(fname)) {
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".js":
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		}

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := fmt.Sprintf(`User-agent: *
Disallow: %[1]s/api/
Disallow: %[1]s/notices
Disallow: %[1]s/qr
Disallow: %[1]s/tools/
`, cfg.prefix)

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
