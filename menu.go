package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// MenuItem is one tool reachable from the home page.
type MenuItem struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	Path  string `json:"path"`
}

var menuList = []MenuItem{
	{
		Title: "Media Info Explorer",
		ID:    "tools_media-info",
		Path:  "/tools/media-info",
	},
	{
		Title: "Image Convertor",
		ID:    "tools_image-convertor",
		Path:  "/tools/image-convertor",
	},
}

// tool couples a menu entry with its page body and upload handler.
type tool struct {
	item   MenuItem
	form   func(cfg *Config) string
	action func(cfg *Config, notices *NoticeStore, errs chan<- error) httprouter.Handle
}

func tools() []tool {
	return []tool{
		{item: menuList[0], form: mediaInfoForm, action: serveMediaInfo},
		{item: menuList[1], form: convertorForm, action: serveConvertor},
	}
}

func lookupMenu(path string) (MenuItem, bool) {
	for _, item := range menuList {
		if item.Path == path {
			return item, true
		}
	}

	return MenuItem{}, false
}

func serveMenu(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		items := make([]MenuItem, 0, len(menuList))
		for _, item := range menuList {
			item.Path = cfg.prefix + item.Path
			items = append(items, item)
		}

		securityHeaders(cfg, w)

		if err := writeJSON(w, http.StatusOK, items); err != nil {
			errs <- err
		}
	}
}

// registerTools mounts every menu entry:
//   - GET  $prefix$path → tool page
//   - POST $prefix$path → tool action
func registerTools(cfg *Config, mux *httprouter.Router, notices *NoticeStore, errs chan<- error) {
	for _, t := range tools() {
		mux.GET(cfg.prefix+t.item.Path, serveToolPage(cfg, t, errs))
		mux.POST(cfg.prefix+t.item.Path, t.action(cfg, notices, errs))

		logf(cfg, "START: Registered %s at %s%s", t.item.Title, cfg.prefix, t.item.Path)
	}

	mux.GET(cfg.prefix+"/api/menu", serveMenu(cfg, errs))
}
