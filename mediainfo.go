/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Seednode/mediabox/media"
	"github.com/julienschmidt/httprouter"
)

var errBadUpload = errors.New("malformed upload")

// multipartOverhead leaves room for boundaries and the other form fields.
const multipartOverhead = 1 << 20

// uploadedFile reads the "file" field of a multipart upload capped at
// --max-upload.
func uploadedFile(cfg *Config, w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, cfg.maxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, fmt.Errorf("parsing upload: %w", err)
		}

		return nil, nil, fmt.Errorf("%w: %w", errBadUpload, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("reading upload: %w", err)
	}

	if header.Size > cfg.maxUploadBytes {
		file.Close()

		return nil, nil, fmt.Errorf("%w (%s over %s)", media.ErrTooLarge,
			humanReadableSize(header.Size), humanReadableSize(cfg.maxUploadBytes))
	}

	return file, header, nil
}

func serveMediaInfo(cfg *Config, notices *NoticeStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		file, header, err := uploadedFile(cfg, w, r)
		if err != nil {
			serverError(cfg, notices, w, r, err)

			return
		}
		defer file.Close()

		info, err := media.Inspect(header.Filename, file, cfg.maxUploadBytes)
		if err != nil {
			serverError(cfg, notices, w, r, err)

			return
		}

		securityHeaders(cfg, w)

		if err := writeJSON(w, http.StatusOK, info); err != nil {
			errs <- err

			return
		}

		logf(cfg, "INFO: Inspected %q (%s, %s) for %s in %s",
			info.Name,
			info.SizeHuman,
			info.ContentType,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
