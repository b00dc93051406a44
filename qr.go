package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// requestScheme respects TLS and X-Forwarded-Proto if present.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}

	return "http"
}

// serveQR renders a PNG QR code linking to the home page or to one of the
// tools, selected by the "path" query parameter.
func serveQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		path := r.URL.Query().Get("path")
		if path == "" {
			path = "/"
		}

		if _, ok := lookupMenu(path); !ok && path != "/" {
			http.Error(w, "unknown tool path", http.StatusNotFound)

			return
		}

		url := requestScheme(r) + "://" + r.Host + cfg.prefix + path

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		_, err = w.Write(png)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: QR code for %s to %s", url, realIP(r))
	}
}
