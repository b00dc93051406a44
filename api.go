package main

import (
	"net/http"

	"github.com/Seednode/mediabox/bytesize"
	"github.com/julienschmidt/httprouter"
)

// serveHumanize formats ?bytes= with binary units, answering "-" when the
// parameter is missing or not a number.
func serveHumanize(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var bytes *float64
		if v, ok := bytesize.Parse(r.URL.Query().Get("bytes")); ok {
			bytes = &v
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(bytesize.Humanize(bytes) + "\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}
