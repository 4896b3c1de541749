package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RezaEskandarii/recordgrid/app"
	"github.com/RezaEskandarii/recordgrid/internal/address"
	"github.com/RezaEskandarii/recordgrid/internal/fetcher"
	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/state"
	"github.com/RezaEskandarii/recordgrid/internal/users"
	"github.com/RezaEskandarii/recordgrid/types"
)

const (
	ListPath    = "/users"
	returnParam = "return"
)

type HttpRouteHandler struct {
	container *app.Container
	renderer  *renderer
	logger    *slog.Logger
	Port      uint
}

func NewRouteHandler(container *app.Container, port uint) (*HttpRouteHandler, error) {
	r, err := newRenderer(container.Logger)
	if err != nil {
		return nil, err
	}
	return &HttpRouteHandler{
		container: container,
		renderer:  r,
		logger:    container.Logger,
		Port:      port,
	}, nil
}

// Routes registers every console page on a fresh mux.
func (handler *HttpRouteHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ListPath, http.StatusSeeOther)
	})
	mux.HandleFunc("GET "+ListPath, handler.handleList)
	mux.HandleFunc("GET "+ListPath+"/new", handler.handleNew)
	mux.HandleFunc("POST "+ListPath, handler.handleCreate)
	mux.HandleFunc("GET "+ListPath+"/{id}/edit", handler.handleEdit)
	mux.HandleFunc("POST "+ListPath+"/{id}", handler.handleUpdate)
	mux.HandleFunc("GET "+ListPath+"/{id}/delete", handler.handleConfirmDelete)
	mux.HandleFunc("POST "+ListPath+"/{id}/delete", handler.handleDelete)
	mux.HandleFunc("POST "+ListPath+"/{id}/toggle", handler.handleToggle)
	mux.Handle("GET /metrics", handler.container.Metrics.Handler())
	return mux
}

// Serve blocks until ctx is done, then shuts the server down.
func (handler *HttpRouteHandler) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", handler.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		printBanner(addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type headerLink struct {
	grid.Header
	Href string
}

func (handler *HttpRouteHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values := r.URL.Query()
	store := address.NewStore(ListPath, values)
	sess := handler.container.NewSession(store)
	ctl := sess.Controls()
	st := sess.State()

	// The search form submits the raw term; store it the way the search
	// writer would.
	if raw, ok := store.Read(query.ParamSearch); ok && raw != strings.TrimSpace(raw) {
		http.Redirect(w, r, store.Preview(ctl.SetSearchPatch(raw)), http.StatusSeeOther)
		return
	}

	// A bare address is the first visit and degrades to an empty page.
	var snap fetcher.Snapshot[types.User]
	if len(values) == 0 {
		snap = sess.Load(ctx)
	} else {
		snap = sess.Refresh(ctx)
	}

	var items []types.User
	total := 0
	if snap.Data != nil {
		items = snap.Data.Items
		total = snap.Data.TotalCount
	}

	ret := values.Encode()
	g := users.NewGrid(users.Handlers{
		EditLink:   func(u types.User) string { return withReturn(ListPath+"/"+u.ID+"/edit", ret, nil) },
		ToggleLink: func(u types.User) string { return withReturn(ListPath+"/"+u.ID+"/toggle", ret, url.Values{"active": {strconv.FormatBool(u.Active)}}) },
		DeleteLink: func(u types.User) string { return withReturn(ListPath+"/"+u.ID+"/delete", ret, nil) },
	})
	view := g.Render(grid.Input[types.User]{
		Items:     items,
		Loading:   snap.Loading,
		Err:       snap.Err,
		SortField: st.SortField,
		SortDir:   st.SortDir,
	})

	headers := make([]headerLink, len(view.Headers))
	for i, h := range view.Headers {
		headers[i] = headerLink{Header: h}
		if h.Sortable {
			headers[i].Href = store.Preview(ctl.ToggleSortPatch(h.Key))
		}
	}

	sortLinks := make([]Link, len(users.SortOptions))
	for i, o := range users.SortOptions {
		sortLinks[i] = Link{Label: o.Label, Href: store.Preview(ctl.ToggleSortPatch(o.Value)), Active: st.SortField == o.Value}
	}
	statusOptions := users.StatusOptions()
	statusLinks := make([]Link, len(statusOptions))
	for i, o := range statusOptions {
		statusLinks[i] = Link{Label: o.Label, Href: store.Preview(ctl.ToggleStatusPatch(o.Value)), Active: st.Status == o.Value}
	}
	clearLink := ""
	if query.HasActiveFilters(values) {
		clearLink = store.Preview(ctl.ClearFiltersPatch())
	}

	stats := users.LoadStats(ctx, handler.container.Users, handler.logger)

	data := NewDataMap().
		Add("Title", users.Title).
		Add("Subtitle", users.Subtitle).
		Add("ListTitle", users.ListTitle).
		Add("Flash", popFlash(w, r)).
		Add("Cards", users.Cards(stats)).
		Add("Total", users.TotalText(total)).
		Add("Search", st.Search).
		Add("SearchHint", users.SearchHint).
		Add("Hidden", hiddenFields(values)).
		Add("SortLabel", users.SortLabel).
		Add("SortCurrent", users.OptionLabel(users.SortOptions, st.SortField, st.SortField)).
		Add("SortLinks", sortLinks).
		Add("FilterLabel", users.FilterLabel).
		Add("StatusLinks", statusLinks).
		Add("ClearLabel", users.ClearLabel).
		Add("ClearLink", clearLink).
		Add("CreateLabel", users.CreateLabel).
		Add("CreateLink", withReturn(ListPath+"/new", ret, nil)).
		Add("View", view).
		Add("Headers", headers).
		Add("ToggleLabel", users.ActionToggle).
		Add("EmptyTitle", users.EmptyTitle).
		Add("ErrorTitle", users.ErrorTitle).
		Add("Pagination", NewPaginationData(store, ctl, sess.Defaults(), total))

	handler.renderer.render(w, http.StatusOK, "users", data.Data)
}

type formPage struct {
	Title        string
	Description  string
	Submit       string
	CancelLabel  string
	Action       string
	Cancel       string
	Error        string
	Form         users.Form
	Labels       map[string]string
	Placeholders map[string]string
	Types        []state.UserTypeConfig
	Return       string
}

func (handler *HttpRouteHandler) formPage(r *http.Request, title, description, submit, action string, form users.Form) formPage {
	ret := returnQuery(r)
	return formPage{
		Title:        title,
		Description:  description,
		Submit:       submit,
		CancelLabel:  users.CancelLabel,
		Action:       action,
		Cancel:       listLocation(ret),
		Form:         form,
		Labels:       users.FieldLabels,
		Placeholders: users.FieldPlaceholders,
		Types:        state.AssignableUserTypes,
		Return:       ret,
	}
}

func (handler *HttpRouteHandler) handleNew(w http.ResponseWriter, r *http.Request) {
	page := handler.formPage(r, users.CreateTitle, users.CreateDescription, users.CreateSubmit, ListPath, users.Form{Active: true})
	handler.renderer.render(w, http.StatusOK, "form", page)
}

func (handler *HttpRouteHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := users.FormFromValues(r.PostForm)
	outcome := handler.container.Gateway.Create(r.Context(), form.Fields())
	if !outcome.Success {
		page := handler.formPage(r, users.CreateTitle, users.CreateDescription, users.CreateSubmit, ListPath, form)
		page.Error = outcome.Message
		handler.renderer.render(w, http.StatusUnprocessableEntity, "form", page)
		return
	}
	handler.finish(w, r, outcome)
}

func (handler *HttpRouteHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := handler.loadUser(w, r)
	if !ok {
		return
	}
	page := handler.formPage(r, users.EditTitle, users.EditDescription(*u), users.EditSubmit, ListPath+"/"+u.ID, users.FormFromUser(*u))
	handler.renderer.render(w, http.StatusOK, "form", page)
}

func (handler *HttpRouteHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	form := users.FormFromValues(r.PostForm)
	outcome := handler.container.Gateway.Update(r.Context(), id, form.Patch())
	if !outcome.Success {
		page := handler.formPage(r, users.EditTitle, "", users.EditSubmit, ListPath+"/"+id, form)
		page.Error = outcome.Message
		handler.renderer.render(w, http.StatusUnprocessableEntity, "form", page)
		return
	}
	handler.finish(w, r, outcome)
}

func (handler *HttpRouteHandler) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := handler.loadUser(w, r)
	if !ok {
		return
	}
	ret := returnQuery(r)
	data := NewDataMap().
		Add("Title", users.DeleteTitle()).
		Add("Message", users.DeleteMessage(*u)).
		Add("Details", users.DeleteDetails(*u)).
		Add("Action", ListPath+"/"+u.ID+"/delete").
		Add("Confirm", users.ActionDelete).
		Add("Cancel", listLocation(ret)).
		Add("CancelLabel", users.CancelLabel).
		Add("Return", ret)
	handler.renderer.render(w, http.StatusOK, "confirm", data.Data)
}

func (handler *HttpRouteHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	outcome := handler.container.Gateway.Delete(r.Context(), r.PathValue("id"))
	handler.finish(w, r, outcome)
}

func (handler *HttpRouteHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	current, err := strconv.ParseBool(r.URL.Query().Get("active"))
	if err != nil {
		http.Error(w, "Invalid Parameters", http.StatusBadRequest)
		return
	}
	outcome := handler.container.Gateway.ToggleStatus(r.Context(), r.PathValue("id"), current)
	handler.finish(w, r, outcome)
}

func (handler *HttpRouteHandler) loadUser(w http.ResponseWriter, r *http.Request) (*types.User, bool) {
	u, err := handler.container.Users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.logger.Warn("load user", "id", r.PathValue("id"), "error", err)
		setFlash(w, Flash{Message: err.Error()})
		http.Redirect(w, r, listLocation(returnQuery(r)), http.StatusSeeOther)
		return nil, false
	}
	return u, true
}

// finish reports a mutation outcome and sends the browser back to the list
// selection it came from, which re-fetches the current page.
func (handler *HttpRouteHandler) finish(w http.ResponseWriter, r *http.Request, outcome types.MutationOutcome) {
	setFlash(w, Flash{Success: outcome.Success, Message: outcome.Message})
	http.Redirect(w, r, listLocation(returnQuery(r)), http.StatusSeeOther)
}

// returnQuery is the list selection a page was opened from, normalized so it
// can only ever point back at the list.
func returnQuery(r *http.Request) string {
	raw := r.URL.Query().Get(returnParam)
	if raw == "" && r.Method == http.MethodPost {
		raw = r.PostFormValue(returnParam)
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	return v.Encode()
}

func listLocation(ret string) string {
	if ret == "" {
		return ListPath
	}
	return ListPath + "?" + ret
}

func withReturn(path, ret string, extra url.Values) string {
	v := url.Values{}
	for k, vals := range extra {
		v[k] = vals
	}
	if ret != "" {
		v.Set(returnParam, ret)
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
