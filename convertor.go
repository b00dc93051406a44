/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/mediabox/bytesize"
	"github.com/Seednode/mediabox/media"
	"github.com/julienschmidt/httprouter"
)

var errBadField = errors.New("invalid form field")

// intField reads an optional integer form field, defaulting to zero.
func intField(r *http.Request, name string) (int, error) {
	value := strings.TrimSpace(r.FormValue(name))
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %q", errBadField, name, value)
	}

	return n, nil
}

func convertOptions(r *http.Request) (media.ConvertOptions, error) {
	var opts media.ConvertOptions

	format, err := media.ParseFormat(r.FormValue("format"))
	if err != nil {
		return opts, err
	}
	opts.Format = format

	if opts.Quality, err = intField(r, "quality"); err != nil {
		return opts, err
	}
	// a zero Quality means the default, so an explicit zero is refused here
	if opts.Quality == 0 && strings.TrimSpace(r.FormValue("quality")) != "" {
		return opts, fmt.Errorf("%w: 0", media.ErrInvalidQuality)
	}
	if opts.Width, err = intField(r, "width"); err != nil {
		return opts, err
	}
	if opts.Height, err = intField(r, "height"); err != nil {
		return opts, err
	}

	return opts, nil
}

func convertedName(upload string, format media.Format) string {
	base := strings.TrimSuffix(filepath.Base(upload), filepath.Ext(upload))
	if base == "" || base == "." || base == "/" {
		base = "converted"
	}

	return base + "." + format.Extension()
}

func serveConvertor(cfg *Config, notices *NoticeStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		file, header, err := uploadedFile(cfg, w, r)
		if err != nil {
			serverError(cfg, notices, w, r, err)

			return
		}
		defer file.Close()

		opts, err := convertOptions(r)
		if err != nil {
			serverError(cfg, notices, w, r, err)

			return
		}

		var out bytes.Buffer

		res, err := media.Convert(file, opts, &out)
		if err != nil {
			serverError(cfg, notices, w, r, err)

			return
		}

		name := convertedName(header.Filename, res.OutputFormat)

		w.Header().Set("Content-Type", res.OutputFormat.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		w.Header().Set("X-Size-Human", bytesize.HumanizeInt(res.Bytes))
		securityHeaders(cfg, w)

		written, err := out.WriteTo(w)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "CONVERT: %s %q (%s) to %s %q (%s, %dx%d) for %s in %s",
			res.InputFormat,
			header.Filename,
			humanReadableSize(header.Size),
			res.OutputFormat,
			name,
			humanReadableSize(written),
			res.Width,
			res.Height,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
