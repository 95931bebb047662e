package hutch

import (
	"path"
	"strings"
)

// Client tracks one logged-in user: their name and the virtual working
// directory they are browsing, rooted at "/" inside their own area.
type Client struct {
	Name string
	Cwd  string
}

// Flash severity levels, mapped to alert styles in the UI.
const (
	FlashInfo    = 1
	FlashWarning = 2
	FlashDanger  = 3
)

// Flash is a short-lived user-facing notice. Flashes live for exactly one
// request: handlers collect them in a local slice and hand them to the
// template, nothing is shared across requests.
type Flash struct {
	Msg   string
	Level int
}

// AlertClass returns the UI alert class for the flash level.
func (f Flash) AlertClass() string {
	switch f.Level {
	case FlashWarning:
		return "alert-warning"
	case FlashDanger:
		return "alert-danger"
	default:
		return "alert-info"
	}
}

// Crumb is one segment of the clickable directory path in the UI.
type Crumb struct {
	Name string
	Path string
}

// DirView is the rendered state of one directory inside a user's area.
type DirView struct {
	Cwd    string
	Parent string
	Dirs   []string
	Files  []string
}

// Crumbs expands the working directory into cumulative path segments, so
// "/foo/bar" yields /, foo/ and bar/ each with its full path.
func (v DirView) Crumbs() []Crumb {
	crumbs := []Crumb{{Name: "/", Path: "/"}}
	full := "/"
	for _, seg := range splitPath(v.Cwd) {
		full = path.Join(full, seg) + "/"
		crumbs = append(crumbs, Crumb{Name: seg + "/", Path: full})
	}
	return crumbs
}

// Href returns the virtual path of a child entry of the directory.
func (v DirView) Href(name string) string {
	if v.Cwd == "/" {
		return "/" + name
	}
	return v.Cwd + "/" + name
}

func splitPath(p string) []string {
	var segs []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
