package ui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"onlinefdr/adapters/report"
	"onlinefdr/app"
	"onlinefdr/domain/core"
	"onlinefdr/internal/errors"
)

// Server is the HTML dashboard for browsing screening runs
type Server struct {
	router    *gin.Engine
	service   *app.ScreeningService
	templates *template.Template
}

// NewServer creates a new dashboard server around the screening service
func NewServer(service *app.ScreeningService) (*Server, error) {
	templates, err := template.New("").Parse(indexTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse index template")
	}
	if _, err := templates.New("detail").Parse(detailTemplate); err != nil {
		return nil, errors.Wrap(err, "failed to parse detail template")
	}

	s := &Server{
		router:    gin.Default(),
		service:   service,
		templates: templates,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/runs/:id", s.handleRunDetail)
}

// Start starts the dashboard server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	runs, err := s.service.ListRuns(c.Request.Context(), 100)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to list runs: %v", err)
		return
	}
	s.render(c, "index", gin.H{
		"Runs":  runs,
		"Count": len(runs),
	})
}

func (s *Server) handleRunDetail(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "bad run id: %v", err)
		return
	}
	artifact, err := s.service.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.GetCode(err) == errors.CodeNotFound {
			c.String(http.StatusNotFound, "run not found")
			return
		}
		c.String(http.StatusInternalServerError, "failed to load run: %v", err)
		return
	}

	body := report.RenderHTML(report.BuildMarkdown(artifact))
	s.render(c, "detail", gin.H{
		"Run":    artifact,
		"Report": template.HTML(body),
	})
}

func (s *Server) render(c *gin.Context, name string, data gin.H) {
	c.Header("Content-Type", "text/html")
	if err := s.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

const indexTemplate = `{{define "index"}}<!DOCTYPE html>
<html>
<head><title>Online FDR Screening</title></head>
<body>
<h1>Screening Runs</h1>
<p>{{.Count}} run(s) recorded.</p>
<table border="1" cellpadding="4">
<tr><th>ID</th><th>Variant</th><th>Tests</th><th>Rejections</th><th>Created</th></tr>
{{range .Runs}}
<tr>
<td><a href="/runs/{{.ID}}">{{.ID}}</a></td>
<td>{{.Kind}}</td>
<td>{{.NumTests}}</td>
<td>{{.Summary.Rejections}}</td>
<td>{{.CreatedAt.Time.Format "2006-01-02 15:04:05"}}</td>
</tr>
{{end}}
</table>
</body>
</html>{{end}}`

const detailTemplate = `{{define "detail"}}<!DOCTYPE html>
<html>
<head><title>Run {{.Run.ID}}</title></head>
<body>
<p><a href="/">&larr; all runs</a></p>
{{.Report}}
</body>
</html>{{end}}`
