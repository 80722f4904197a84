package api

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"churn-predictor/features"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.New("form.html").Funcs(template.FuncMap{
	"percent": func(p *float64) float64 { return *p * 100 },
}).ParseFS(templateFS, "templates/form.html"))

// formField is one input as rendered on the page.
type formField struct {
	features.Field
	Value string
}

func (f formField) IsNumber() bool { return f.Kind == features.KindNumber }

// IsSelect renders multi-way choices as a dropdown, binary ones as radios.
func (f formField) IsSelect() bool { return f.Kind == features.KindChoice && len(f.Choices) > 2 }

func (f formField) Step() string {
	if f.Integral {
		return "1"
	}
	return "0.01"
}

type formPage struct {
	Customer []formField
	Services []formField
	Result   *Result
}

// newFormPage fills every input with the submitted value or its default.
func newFormPage(submitted map[string][]string, result *Result) formPage {
	page := formPage{Result: result}
	split := len(features.Order()) - len(features.ServiceOptions())
	for i, f := range features.Fields() {
		field := formField{Field: f}
		switch {
		case len(submitted[f.Name]) > 0:
			field.Value = submitted[f.Name][0]
		case f.Kind == features.KindNumber:
			field.Value = strconv.FormatFloat(f.Min, 'f', -1, 64)
		default:
			field.Value = f.Choices[0]
		}

		if i < split {
			page.Customer = append(page.Customer, field)
		} else {
			page.Services = append(page.Services, field)
		}
	}
	return page
}

/*
HandleForm renders the prediction form and handles its submissions
*/
func (s *Server) HandleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var page formPage
	switch r.Method {
	case http.MethodGet:
		page = newFormPage(nil, nil)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		result, _ := s.Predict(r.Context(), features.InputsFromForm(r.PostForm))
		page = newFormPage(r.PostForm, &result)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, page); err != nil {
		log.WithField("error", err).Error("Failed to render form")
	}
}
