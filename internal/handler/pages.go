package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"

	"voterroll/internal/domain"
	"voterroll/internal/present"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"list.html", "detail.html", "graphs.html"}

var funcs = template.FuncMap{
	"count": present.FormatCount,
	"date": func(v domain.Voter) string {
		return v.DateOfBirth.Format(domain.DateLayout)
	},
	"registered": func(v domain.Voter) string {
		return v.DateOfRegistration.Format(domain.DateLayout)
	},
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// ElectionOption is one election checkbox in the filter form
type ElectionOption struct {
	Name    string
	Label   string
	Checked bool
}

// FilterForm carries the filter form's choices and current selection
type FilterForm struct {
	Action    string
	Parties   []string
	Years     []int
	Scores    []int
	Elections []ElectionOption

	Party   string
	MinYear int
	MaxYear int
	Score   int
}

// Score choices offered by the filter form
var scoreChoices = []int{1, 2, 3, 4, 5}

func (h *VoterHandler) filterForm(r *http.Request, action string, filter domain.FilterSpec) FilterForm {
	parties, err := h.svc.PartyChoices(r.Context())
	if err != nil {
		log.Printf("Failed to load party choices: %v", err)
	}

	form := FilterForm{
		Action:  action,
		Parties: parties,
		Years:   h.opts.Years,
		Scores:  scoreChoices,
	}
	form.Party, _ = filter.Party.Get()
	for _, p := range parties {
		if domain.FoldParty(p) == domain.FoldParty(form.Party) {
			form.Party = p
			break
		}
	}
	form.MinYear, _ = filter.MinYear.Get()
	form.MaxYear, _ = filter.MaxYear.Get()
	form.Score, _ = filter.Score.Get()
	for _, e := range domain.Elections {
		form.Elections = append(form.Elections, ElectionOption{
			Name:    string(e),
			Label:   e.Label(),
			Checked: filter.RequiresElection(e),
		})
	}
	return form
}

type listView struct {
	Title   string
	Form    FilterForm
	Page    present.Page
	PrevURL template.URL
	NextURL template.URL
}

type detailView struct {
	Title     string
	Voter     *domain.Voter
	Elections []ElectionOption
}

type graphsView struct {
	Title  string
	Form   FilterForm
	Total  int
	Charts present.Charts
	NoData string
}

// ListPage renders the paginated, filterable voter list
func (h *VoterHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ParseFilter(query)

	page, err := h.svc.ListPage(r.Context(), filter, present.ParsePageNumber(query), h.opts.PageSize)
	if err != nil {
		log.Printf("Failed to list voters: %v", err)
		http.Error(w, "Failed to list voters", http.StatusInternalServerError)
		return
	}

	view := listView{
		Title: "Voters",
		Form:  h.filterForm(r, "/voters", filter),
		Page:  page,
	}
	if page.HasPrev() {
		view.PrevURL = pageURL("/voters", filter, page.Number-1)
	}
	if page.HasNext() {
		view.NextURL = pageURL("/voters", filter, page.Number+1)
	}
	h.render(w, "list.html", view, http.StatusOK)
}

// DetailPage renders a single voter
func (h *VoterHandler) DetailPage(w http.ResponseWriter, r *http.Request) {
	voter, err := h.svc.GetVoter(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrVoterNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("Failed to get voter: %v", err)
		http.Error(w, "Failed to get voter", http.StatusInternalServerError)
		return
	}

	view := detailView{Title: voter.FullName(), Voter: voter}
	for _, e := range domain.Elections {
		view.Elections = append(view.Elections, ElectionOption{
			Name:    string(e),
			Label:   e.Label(),
			Checked: voter.Voted.Voted(e),
		})
	}
	h.render(w, "detail.html", view, http.StatusOK)
}

// GraphsPage renders the three analytics charts for the filtered roll
func (h *VoterHandler) GraphsPage(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParseFilter(r.URL.Query())

	analysis, err := h.svc.Analyze(r.Context(), filter)
	if err != nil {
		log.Printf("Failed to analyze voters: %v", err)
		http.Error(w, "Failed to analyze voters", http.StatusInternalServerError)
		return
	}

	h.render(w, "graphs.html", graphsView{
		Title:  "Graphs",
		Form:   h.filterForm(r, "/graphs", filter),
		Total:  analysis.Total,
		Charts: analysis.Charts,
		NoData: present.NoDataMessage,
	}, http.StatusOK)
}

// pageURL links to page number of path, keeping the active filter
func pageURL(path string, filter domain.FilterSpec, number int) template.URL {
	query := present.PageQuery(filter, number)
	if query == "" {
		return template.URL(path)
	}
	return template.URL(path + "?" + query)
}

// render executes into a buffer so a template error never produces a
// half-written page.
func (h *VoterHandler) render(w http.ResponseWriter, name string, data any, statusCode int) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("Failed to render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write %s: %v", name, err)
	}
}
