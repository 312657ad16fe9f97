package server

import (
	"bytes"
	"html/template"
	"io/fs"
	"path"
	"time"

	"warbler/internal/models"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"

	"embed"
)

//go:embed views/*.html views/partials/*.html
var viewsFS embed.FS

var templateFuncs = template.FuncMap{
	"timestamp": func(t time.Time) string {
		return t.Format("02 January 2006")
	},
}

var templates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	pages, err := fs.Glob(viewsFS, "views/*.html")
	if err != nil {
		panic(err)
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := path.Base(page)
		if name == "layout.html" {
			continue
		}
		parsed[name] = template.Must(
			template.New("layout.html").Funcs(templateFuncs).ParseFS(viewsFS, "views/layout.html", "views/partials/*.html", page),
		)
	}
	return parsed
}

// viewData is the payload every template receives.
type viewData struct {
	Title       string
	CurrentUser *models.User
	Flashes     []session.FlashMessage
	Data        any
}

// render writes the named page wrapped in the layout. The current user and
// any pending flash messages are pulled from the request session.
func (s *Server) render(c *fiber.Ctx, status int, page, title string, data any) error {
	tpl, ok := templates[page]
	if !ok {
		return models.NewInternalError(nil)
	}

	vd := viewData{
		Title: title,
		Data:  data,
	}
	if user, ok := c.Locals("currentUser").(*models.User); ok {
		vd.CurrentUser = user
	}
	if sess, err := session.FromCtx(s.sessions, c); err == nil {
		vd.Flashes = session.PopFlashes(sess)
		if err := sess.Save(); err != nil {
			return models.NewInternalError(err)
		}
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", vd); err != nil {
		return models.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
