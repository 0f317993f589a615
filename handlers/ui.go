package handlers

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tripplanner/planner"
	"tripplanner/services"
)

const (
	MinBudget     = 500
	MaxBudget     = 20000
	DefaultBudget = 2000
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the UI pages with the helpers they rely on.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"json": func(v any) string {
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err.Error()
			}
			return string(b)
		},
		// Map fragments are produced by html/template in the maps package.
		"safe": func(s string) template.HTML { return template.HTML(s) },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

type PlanForm struct {
	Destinations string `form:"destinations"`
	Dates        string `form:"dates"`
	Budget       int    `form:"budget"`
	Interests    string `form:"interests"`
	UseLive      bool   `form:"use_live"`
	UseRAG       bool   `form:"use_rag"`
}

type pageData struct {
	Form      PlanForm
	MinBudget int
	MaxBudget int
	Result    *planner.State
}

func defaultForm() PlanForm {
	return PlanForm{
		Destinations: "Paris -> Rome -> London",
		Dates:        "2025-09-10,2025-09-13",
		Budget:       DefaultBudget,
		Interests:    "history, art, food",
	}
}

// ClampBudget keeps the form budget inside the UI bounds.
func ClampBudget(b int) int {
	return min(max(b, MinBudget), MaxBudget)
}

func IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{Form: defaultForm(), MinBudget: MinBudget, MaxBudget: MaxBudget})
}

// PlanFormHandler runs the planner for a submitted form and renders the result page.
func PlanFormHandler(p TripPlanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form PlanForm
		if err := c.ShouldBind(&form); err != nil {
			log.Printf("⚠️  bad plan form: %v", err)
			form = postedForm(c)
		}
		form.Budget = ClampBudget(form.Budget)

		st := p.Plan(c.Request.Context(), planner.TripRequest{
			Destinations: form.Destinations,
			Dates:        form.Dates,
			Budget:       form.Budget,
			Interests:    form.Interests,
		}, planner.Options{UseLive: form.UseLive, UseRAG: form.UseRAG})

		c.HTML(http.StatusOK, "index.html", pageData{Form: form, MinBudget: MinBudget, MaxBudget: MaxBudget, Result: &st})
	}
}

// postedForm reads the form field by field so one malformed value does not
// discard the rest. An unparsable budget becomes DefaultBudget.
func postedForm(c *gin.Context) PlanForm {
	budget, err := strconv.Atoi(strings.TrimSpace(c.PostForm("budget")))
	if err != nil {
		budget = DefaultBudget
	}
	useLive, _ := strconv.ParseBool(c.PostForm("use_live"))
	useRAG, _ := strconv.ParseBool(c.PostForm("use_rag"))
	return PlanForm{
		Destinations: c.PostForm("destinations"),
		Dates:        c.PostForm("dates"),
		Budget:       budget,
		Interests:    c.PostForm("interests"),
		UseLive:      useLive,
		UseRAG:       useRAG,
	}
}

// DownloadTextHandler echoes the posted itinerary back as a text attachment.
func DownloadTextHandler(c *gin.Context) {
	text := c.PostForm("itinerary")
	c.Header("Content-Disposition", "attachment; filename=travel_itinerary.txt")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func DownloadPDFHandler(c *gin.Context) {
	budget, _ := strconv.Atoi(c.PostForm("budget"))

	pdfBytes, err := services.GenerateItineraryPDF(services.ItineraryPDFData{
		Destinations: c.PostForm("destinations"),
		Dates:        c.PostForm("dates"),
		Budget:       budget,
		Interests:    c.PostForm("interests"),
		Itinerary:    c.PostForm("itinerary"),
		Tips:         c.PostForm("tips"),
	})
	if err != nil {
		log.Printf("❌ PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=travel_itinerary.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
