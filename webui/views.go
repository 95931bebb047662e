package webui

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hutchfm/hutch"
	"github.com/hutchfm/hutch/gateway"
)

const sessionCookie = "session"

// Views bundles the HTML handlers of the file manager around a shared
// service instance.
type Views struct {
	app *gateway.App
	svc *hutch.Service
}

func NewViews(app *gateway.App, svc *hutch.Service) *Views {
	return &Views{app: app, svc: svc}
}

// RegisterAll wires every view onto its route, plus the 404 page.
func (v *Views) RegisterAll() {
	v.app.Route("/", v.Index)
	v.app.Route("/login", v.Login)
	v.app.Route("/register", v.Register)
	v.app.Route("/main", v.Main)
	v.app.NotFound(v.NotFound)
}

// sessionToken extracts the session cookie value, or "" when absent.
func sessionToken(req *gateway.Request) string {
	raw := req.Headers["HTTP_COOKIE"]
	if raw == "" {
		return ""
	}
	cookies, err := http.ParseCookie(raw)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == sessionCookie {
			return c.Value
		}
	}
	return ""
}

func info(msg string) hutch.Flash {
	return hutch.Flash{Msg: msg, Level: hutch.FlashInfo}
}

func danger(msg string) hutch.Flash {
	return hutch.Flash{Msg: msg, Level: hutch.FlashDanger}
}

// Index shows the landing page, or sends logged-in clients straight to
// the browser.
func (v *Views) Index(req *gateway.Request) gateway.Result {
	if _, ok := v.svc.ClientFor(sessionToken(req)); ok {
		return v.app.Redirect(v.app.URLFor(req, "/main"), http.StatusFound)
	}
	return render("index.html", page{})
}

// Login authenticates posted credentials and opens a session. On success
// the client is redirected to the browser with the session cookie set.
func (v *Views) Login(req *gateway.Request) gateway.Result {
	var flashes []hutch.Flash

	if len(req.Form) > 0 {
		name := req.FormValue("login")
		password := req.FormValue("password")

		switch {
		case name == "" || password == "":
			flashes = append(flashes, danger("Username and/or password not specified"))
		default:
			token, err := v.svc.Login(req.Context(), name, password)
			switch {
			case err == nil:
				resp := v.app.Redirect(v.app.URLFor(req, "/main"), http.StatusFound)
				resp.SetCookie(sessionCookie, token)
				return resp
			case errors.Is(err, hutch.ErrUnauthorized):
				flashes = append(flashes, danger("Incorrect username and/or password"))
			default:
				slog.Error("login", "user", name, "err", err)
				flashes = append(flashes, danger("Login failed, try again later"))
			}
		}
	}

	return render("login.html", page{Flashes: flashes})
}

// Register creates a new account. The client stays on the page and logs
// in separately.
func (v *Views) Register(req *gateway.Request) gateway.Result {
	var flashes []hutch.Flash

	if len(req.Form) > 0 {
		name := req.FormValue("login")
		password := req.FormValue("password")

		switch {
		case name == "" || password == "":
			flashes = append(flashes, danger("Username and/or password not specified"))
		default:
			err := v.svc.Register(req.Context(), name, password)
			switch {
			case err == nil:
				flashes = append(flashes, info("Registered successfully. You can now log in"))
			case errors.Is(err, hutch.ErrNameTaken):
				flashes = append(flashes, danger("Username taken"))
			case errors.Is(err, hutch.ErrInvalidInput):
				flashes = append(flashes, danger("Insufficient username. Allowed: letters, digits, _-. ()[]{}?!"))
			default:
				slog.Error("register", "user", name, "err", err)
				flashes = append(flashes, danger("Registration failed, try again later"))
			}
		}
	}

	return render("register.html", page{Flashes: flashes})
}

// Main is the file browser. One handler covers browsing, downloads,
// uploads, directory creation, removals, and logout, dispatched on the
// query action and the posted form.
func (v *Views) Main(req *gateway.Request) gateway.Result {
	token := sessionToken(req)
	action := req.Query["action"]

	if action == "logout" {
		v.svc.Logout(token)
	}

	client, ok := v.svc.ClientFor(token)
	if !ok {
		return v.app.Redirect(v.app.URLFor(req, "/"), http.StatusFound)
	}

	var flashes []hutch.Flash
	requested := req.Query["path"]
	dirName := req.FormValue("dir_name_create")

	switch {
	case requested != "" && action != "":
		flashes = v.handleRemove(client, requested, action)

	case dirName != "":
		if err := v.svc.MakeDir(client, dirName); err != nil {
			flashes = append(flashes, danger("No such file or directory: "+dirName))
		} else {
			flashes = append(flashes, info("Created directory: "+dirName))
		}

	case req.File != nil:
		flashes = v.handleUpload(client, req.File)

	case requested != "":
		if v.svc.IsFile(client, requested) {
			return v.handleDownload(req, client, requested)
		}
		if err := v.svc.ChangeDir(client, requested); err != nil {
			flashes = append(flashes, danger("No such directory: "+requested))
		}
	}

	view, err := v.svc.View(client)
	if err != nil {
		// The working directory may have been removed under us; fall back
		// to the user's root.
		slog.Error("list directory", "user", client.Name, "cwd", client.Cwd, "err", err)
		client.Cwd = "/"
		if view, err = v.svc.View(client); err != nil {
			slog.Error("list user root", "user", client.Name, "err", err)
			return gateway.New([]byte("internal server error"), http.StatusInternalServerError, "text/plain")
		}
	}

	return render("main.html", page{Flashes: flashes, View: view})
}

func (v *Views) handleRemove(client *hutch.Client, path, action string) []hutch.Flash {
	switch action {
	case "remove_dir":
		if err := v.svc.RemoveDir(client, path); err != nil {
			return []hutch.Flash{danger("Directory " + path + " is non-empty")}
		}
		return []hutch.Flash{info("Directory " + path + " was removed")}

	case "remove_file":
		if err := v.svc.RemoveFile(client, path); err != nil {
			return []hutch.Flash{danger("Error occurred after an attempt to remove specified file")}
		}
		return []hutch.Flash{info("File was removed successfully")}
	}
	return nil
}

func (v *Views) handleUpload(client *hutch.Client, file *gateway.UploadedFile) []hutch.Flash {
	target, err := v.svc.UploadTarget(client, file.Name)
	if err != nil {
		return []hutch.Flash{danger("Insufficient filename. Try to rename before upload")}
	}
	if !file.Save(target) {
		return []hutch.Flash{danger("Upload failed due to unhandled error")}
	}
	return []hutch.Flash{info("Uploaded file successfully")}
}

func (v *Views) handleDownload(req *gateway.Request, client *hutch.Client, path string) gateway.Result {
	abs, err := v.svc.DownloadPath(client, path)
	if err != nil {
		slog.Error("resolve download", "user", client.Name, "path", path, "err", err)
		return v.app.Redirect(v.app.URLFor(req, "/main"), http.StatusFound)
	}
	resp, err := v.app.FileDownload(abs)
	if err != nil {
		slog.Error("open download", "user", client.Name, "path", path, "err", err)
		return gateway.New([]byte("not found"), http.StatusNotFound, "text/plain")
	}
	return resp
}

// NotFound renders the 404 page for unknown routes.
func (v *Views) NotFound(_ *gateway.Request) gateway.Result {
	return render("err404.html", page{})
}
