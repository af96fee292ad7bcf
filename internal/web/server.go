package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"trendsview/internal/logging"
	"trendsview/internal/pipeline"
	"trendsview/internal/view"
)

// StateOpener builds a fresh view state for one request.
type StateOpener interface {
	Open(ctx context.Context, urlCategory string) (*view.State, error)
}

type Server struct {
	opener  StateOpener
	dataDir string
	logger  *slog.Logger
}

func NewServer(opener StateOpener, dataDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{opener: opener, dataDir: dataDir, logger: logger}
}

// Routes wires the page, export downloads, health check and the static
// dataset directory.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handleIndex)
	r.Get("/export.csv", s.handleExport(".csv", "text/csv; charset=utf-8", pipeline.WriteCSV))
	r.Get("/export.xlsx", s.handleExport(".xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", pipeline.WriteXLSX))

	if s.dataDir != "" {
		r.Handle("/data/*", http.StripPrefix("/data", http.FileServer(http.Dir(s.dataDir))))
	}
	return r
}

// ListenAndServe serves Routes on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r.URL.Query())

	state, err := s.buildState(r.Context(), q)
	var data pageData
	if err != nil {
		data = pageData{Title: view.DefaultExportTitle, Failed: true, Error: loadErrorMessage, Category: q.Category, Search: q.Search}
	} else {
		data = newPageData(state, q)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExport(ext, contentType string, write func(w io.Writer, headers []string, records [][]string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := parseQuery(r.URL.Query())
		state, err := s.buildState(r.Context(), q)
		if err != nil {
			http.Error(w, loadErrorMessage, http.StatusBadGateway)
			return
		}

		headers, records := state.Table.ExportData()
		var buf bytes.Buffer
		if err := write(&buf, headers, records); err != nil {
			s.logger.Error("export failed", "format", ext, "error", err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", state.ExportTitle+ext))
		_, _ = w.Write(buf.Bytes())
	}
}

// pageQuery is the request state carried in the URL. Category is the
// initial selection; Selected, when present, is a change made with the
// category control afterwards.
type pageQuery struct {
	Category    string
	Selected    string
	HasSelected bool
	Search      string
	Sort        string
	Dir         view.Direction
	Page        int
}

func parseQuery(values url.Values) pageQuery {
	q := pageQuery{
		Category: values.Get("category"),
		Search:   strings.TrimSpace(values.Get("q")),
		Sort:     values.Get("sort"),
		Dir:      view.Asc,
		Page:     1,
	}
	if _, ok := values["selected"]; ok {
		q.Selected = values.Get("selected")
		q.HasSelected = true
	}
	if strings.EqualFold(values.Get("dir"), string(view.Desc)) {
		q.Dir = view.Desc
	}
	if n, err := strconv.Atoi(values.Get("page")); err == nil && n > 0 {
		q.Page = n
	}
	return q
}

func (s *Server) buildState(ctx context.Context, q pageQuery) (*view.State, error) {
	state, err := s.opener.Open(ctx, q.Category)
	if err != nil {
		return nil, err
	}

	if q.HasSelected {
		if err := state.Selector.Select(q.Selected); err != nil {
			s.logger.Debug("ignoring category change", "selected", q.Selected, "error", err)
		}
	}
	if q.Search != "" {
		state.Table.Search(q.Search).Draw()
	}
	if col, ok := sortColumn(state.Table, q.Sort); ok {
		state.Table.SetOrder(view.Order{Column: col, Dir: q.Dir}).Draw()
	}
	if q.Page > 1 {
		state.Table.SetPage(q.Page - 1)
	}
	return state, nil
}

func sortColumn(table *view.Table, key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	columns := table.Columns()
	for _, i := range table.VisibleColumns() {
		if columns[i].Key == key {
			return i, true
		}
	}
	return 0, false
}

func newPageData(state *view.State, q pageQuery) pageData {
	table := state.Table
	category := q.Category
	if active, ok := state.ActiveCategory(); ok {
		category = active
	}

	order := table.Order()
	sortKey, dir := "", view.Asc
	if _, ok := sortColumn(table, q.Sort); ok {
		sortKey, dir = q.Sort, q.Dir
	}

	base := linkState{category: category, search: q.Search, sort: sortKey, dir: dir}

	data := pageData{
		Title:      state.ExportTitle,
		Category:   category,
		Search:     q.Search,
		Sort:       sortKey,
		Dir:        string(dir),
		ExportCSV:  base.href("/export.csv", 0),
		ExportXLSX: base.href("/export.xlsx", 0),
	}

	selected := state.Selector.Value()
	for _, opt := range state.Selector.Options() {
		data.Options = append(data.Options, optionData{Value: opt.Value, Label: opt.Label, Selected: opt.Value == selected})
	}

	columns := table.Columns()
	visible := table.VisibleColumns()
	data.ColumnCount = len(visible)
	for _, i := range visible {
		h := headerData{Title: columns[i].Title}
		next := base
		next.sort, next.dir = columns[i].Key, view.Asc
		if len(order) > 0 && order[0].Column == i {
			if order[0].Dir == view.Asc {
				h.Arrow = " ▲"
				next.dir = view.Desc
			} else {
				h.Arrow = " ▼"
			}
		}
		h.SortURL = next.href("/", 0)
		data.Headers = append(data.Headers, h)
	}

	for _, row := range table.PageRows() {
		cells := make([]template.HTML, 0, len(visible))
		for _, i := range visible {
			cells = append(cells, table.DisplayHTML(row, i))
		}
		data.Rows = append(data.Rows, cells)
	}

	info := table.Info()
	data.Info = InfoLine(info)
	data.Empty = "No matching records found"
	if info.Total == 0 {
		data.Empty = "No data available in table"
	}
	if info.Page > 0 {
		data.PrevURL = base.href("/", info.Page)
	}
	if info.Page+1 < info.Pages {
		data.NextURL = base.href("/", info.Page+2)
	}
	for p := 1; p <= info.Pages; p++ {
		data.Pages = append(data.Pages, pageLink{Number: p, URL: base.href("/", p), Current: p == info.Page+1})
	}
	return data
}

// InfoLine is the summary shown under the table.
func InfoLine(info view.PageInfo) string {
	line := fmt.Sprintf("Showing %d to %d of %d entries", info.Start, info.End, info.Filtered)
	if info.Filtered != info.Total {
		line += fmt.Sprintf(" (filtered from %d total entries)", info.Total)
	}
	return line
}

type linkState struct {
	category string
	search   string
	sort     string
	dir      view.Direction
}

// href encodes the state into a link. page 0 leaves the page out.
func (l linkState) href(path string, page int) string {
	v := url.Values{}
	if l.category != "" {
		v.Set("category", l.category)
	}
	if l.search != "" {
		v.Set("q", l.search)
	}
	if l.sort != "" {
		v.Set("sort", l.sort)
		v.Set("dir", string(l.dir))
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
