package api

import (
	"errors"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"todo-attack-api/board"
	"todo-attack-api/domain"
	"todo-attack-api/tasklist"
)

// maxRequestBody bounds JSON request bodies; documents themselves are capped
// by the storage gateway, this only stops unbounded reads.
const maxRequestBody = 4 << 20

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Store, auth Authenticator, deduper Deduper, hub *Hub, ctrl *board.Controller, logger *log.Logger) {
	if deduper == nil {
		deduper = noopDeduper{}
	}
	revs := newRevisionTracker()

	e.GET("/healthz", healthz())
	e.GET("/api/files", listDocuments(store, auth))
	e.GET("/api/document", getDocument(store, auth, revs))
	e.PUT("/api/document", saveDocument(store, auth, revs, hub))
	e.GET("/api/tasks", getTasks(store, auth, logger))
	e.GET("/api/board/kanban", getKanban(store, auth, ctrl, logger))
	e.GET("/api/board/gantt", getGantt(store, auth, ctrl))
	e.POST("/api/board/events", postBoardEvent(store, auth, deduper, revs, hub, ctrl))
	e.POST("/api/tasks/toggle", postToggle(store, auth, revs, hub, ctrl))
	e.GET("/api/stream", streamChanges(hub, auth))
}

type documentResponse struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Revision string `json:"revision,omitempty"`
}

type saveRequest struct {
	Name         string `json:"name"`
	Content      string `json:"content"`
	BaseRevision string `json:"baseRevision,omitempty"`
}

type revisionResponse struct {
	Revision string `json:"revision"`
}

type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

type boardEventEnvelope struct {
	Name           string                 `json:"name"`
	IdempotencyKey string                 `json:"idempotencyKey,omitempty"`
	Type           string                 `json:"type"`
	Data           sonic.NoCopyRawMessage `json:"data"`
}

type boardEventResponse struct {
	Revision       string `json:"revision"`
	IdempotencyKey string `json:"idempotencyKey"`
	Applied        bool   `json:"applied"`
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func listDocuments(store Store, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		docs, err := store.List(c.Request().Context())
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "list failed")
		}
		return c.JSON(http.StatusOK, map[string]any{"files": docs})
	}
}

func getDocument(store Store, auth Authenticator, revs *revisionTracker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		name := c.QueryParam("name")
		if name == "" {
			return c.String(http.StatusBadRequest, "missing document name")
		}
		content, err := store.Load(c.Request().Context(), name)
		if err != nil {
			return gatewayError(c, err)
		}
		return c.JSON(http.StatusOK, documentResponse{
			Name:     name,
			Content:  content,
			Revision: revs.Current(name),
		})
	}
}

// Content that would let a crafted document script the editor page is turned
// away at the boundary; the grammar never needs markup.
var unsafeContentRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script[^>]*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)on(?:load|error|click)\s*=`),
}

func contentIsSafe(content string) bool {
	for _, re := range unsafeContentRes {
		if re.MatchString(content) {
			return false
		}
	}
	return true
}

func saveDocument(store Store, auth Authenticator, revs *revisionTracker, hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		var req saveRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Name == "" {
			return c.String(http.StatusBadRequest, "missing document name")
		}
		if !contentIsSafe(req.Content) {
			return c.String(http.StatusBadRequest, "invalid content")
		}
		if err := revs.Check(req.Name, req.BaseRevision); err != nil {
			return gatewayError(c, err)
		}
		if err := store.Save(c.Request().Context(), req.Name, req.Content); err != nil {
			return gatewayError(c, err)
		}
		rev, err := revs.Advance(req.Name, req.BaseRevision)
		if err != nil {
			return gatewayError(c, err)
		}
		hub.Broadcast(req.Name, ChangeEvent{Name: req.Name, Revision: rev, Source: "save", Time: time.Now().UnixMilli()})
		return c.JSON(http.StatusOK, revisionResponse{Revision: rev})
	}
}

func getTasks(store Store, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newBoardRequestMetrics(logger, "/api/tasks")
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		_, authErr := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.String(http.StatusUnauthorized, authErr.Error())
			return err
		}
		name := c.QueryParam("name")
		if name == "" {
			metrics.SetErrorStage("missing_name")
			err = c.String(http.StatusBadRequest, "missing document name")
			return err
		}
		filter, ferr := filterFromQuery(c)
		if ferr != nil {
			metrics.SetErrorStage("invalid_filter")
			err = c.String(http.StatusBadRequest, ferr.Error())
			return err
		}

		loadStart := time.Now()
		content, loadErr := store.Load(c.Request().Context(), name)
		metrics.ObserveLoad(time.Since(loadStart))
		if loadErr != nil {
			metrics.SetErrorStage("storage")
			err = gatewayError(c, loadErr)
			return err
		}

		parseStart := time.Now()
		tasks := tasklist.ParseDocument(content)
		metrics.ObserveParse(time.Since(parseStart))

		out := []domain.Task{}
		overdueOnly := c.QueryParam("overdue") == "1"
		today := time.Now().Format("2006-01-02")
		for _, t := range tasks {
			if !filter.Match(t) {
				continue
			}
			if overdueOnly && !isOverdue(t, today) {
				continue
			}
			out = append(out, t)
		}
		metrics.SetTasksReturned(len(out))
		err = c.JSON(http.StatusOK, tasksResponse{Tasks: out})
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

// isOverdue mirrors the board's reading of due dates: a lexicographic compare
// works because the dates share the YYYY-MM-DD layout.
func isOverdue(t domain.Task, today string) bool {
	return t.Due != "" && t.Due < today && t.Status != domain.StatusDone
}

func getKanban(store Store, auth Authenticator, ctrl *board.Controller, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newBoardRequestMetrics(logger, "/api/board/kanban")
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		if _, authErr := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.String(http.StatusUnauthorized, authErr.Error())
			return err
		}
		name := c.QueryParam("name")
		if name == "" {
			metrics.SetErrorStage("missing_name")
			err = c.String(http.StatusBadRequest, "missing document name")
			return err
		}
		filter, ferr := filterFromQuery(c)
		if ferr != nil {
			metrics.SetErrorStage("invalid_filter")
			err = c.String(http.StatusBadRequest, ferr.Error())
			return err
		}

		loadStart := time.Now()
		content, loadErr := store.Load(c.Request().Context(), name)
		metrics.ObserveLoad(time.Since(loadStart))
		if loadErr != nil {
			metrics.SetErrorStage("storage")
			err = gatewayError(c, loadErr)
			return err
		}

		parseStart := time.Now()
		b := ctrl.Kanban(content, filter)
		metrics.ObserveParse(time.Since(parseStart))
		total := 0
		for _, col := range b.Columns {
			total += len(col.Tasks)
		}
		metrics.SetTasksReturned(total)
		err = c.JSON(http.StatusOK, b)
		return err
	}
}

func getGantt(store Store, auth Authenticator, ctrl *board.Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		name := c.QueryParam("name")
		if name == "" {
			return c.String(http.StatusBadRequest, "missing document name")
		}
		content, err := store.Load(c.Request().Context(), name)
		if err != nil {
			return gatewayError(c, err)
		}
		return c.JSON(http.StatusOK, ctrl.Gantt(content))
	}
}

func postBoardEvent(store Store, auth Authenticator, deduper Deduper, revs *revisionTracker, hub *Hub, ctrl *board.Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		var env boardEventEnvelope
		if err := decodeBody(c, &env); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if env.Name == "" {
			return c.String(http.StatusBadRequest, "missing document name")
		}
		ev, err := decodeBoardEvent(env.Type, env.Data)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		if env.IdempotencyKey == "" {
			env.IdempotencyKey = uuid.NewString()
		}

		fresh, err := deduper.Add(ctx, env.Name, env.IdempotencyKey)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "dedupe failed")
		}
		if !fresh {
			return c.JSON(http.StatusOK, boardEventResponse{
				Revision:       revs.Current(env.Name),
				IdempotencyKey: env.IdempotencyKey,
				Applied:        false,
			})
		}

		rev, applyErr := applyAndSave(c, store, revs, ctrl, env.Name, ev)
		if applyErr != nil {
			// Free the key so the client may retry the event.
			_ = deduper.Remove(ctx, env.Name, env.IdempotencyKey)
			return gatewayError(c, applyErr)
		}
		hub.Broadcast(env.Name, ChangeEvent{Name: env.Name, Revision: rev, Source: "event", Time: time.Now().UnixMilli()})
		return c.JSON(http.StatusOK, boardEventResponse{
			Revision:       rev,
			IdempotencyKey: env.IdempotencyKey,
			Applied:        true,
		})
	}
}

type toggleRequest struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

func postToggle(store Store, auth Authenticator, revs *revisionTracker, hub *Hub, ctrl *board.Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		var req toggleRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Name == "" {
			return c.String(http.StatusBadRequest, "missing document name")
		}
		content, err := store.Load(c.Request().Context(), req.Name)
		if err != nil {
			return gatewayError(c, err)
		}
		patched, err := ctrl.Toggle(content, req.Line)
		if err != nil {
			return gatewayError(c, err)
		}
		if err := store.Save(c.Request().Context(), req.Name, patched); err != nil {
			return gatewayError(c, err)
		}
		rev, err := revs.Advance(req.Name, "")
		if err != nil {
			return gatewayError(c, err)
		}
		hub.Broadcast(req.Name, ChangeEvent{Name: req.Name, Revision: rev, Source: "toggle", Time: time.Now().UnixMilli()})
		return c.JSON(http.StatusOK, revisionResponse{Revision: rev})
	}
}

// applyAndSave is the writeback sequence every board event follows: load the
// current text, patch it, save the whole replacement. The next render starts
// from a fresh parse of what the store now holds.
func applyAndSave(c echo.Context, store Store, revs *revisionTracker, ctrl *board.Controller, name string, ev domain.BoardEvent) (string, error) {
	ctx := c.Request().Context()
	content, err := store.Load(ctx, name)
	if err != nil {
		return "", err
	}
	patched, err := ctrl.Apply(content, ev)
	if err != nil {
		return "", err
	}
	if err := store.Save(ctx, name, patched); err != nil {
		return "", err
	}
	return revs.Advance(name, "")
}

func decodeBoardEvent(kind string, data []byte) (domain.BoardEvent, error) {
	if len(data) == 0 {
		return nil, errors.New("missing event data")
	}
	dec := func(v any) error {
		return sonic.ConfigStd.Unmarshal(data, v)
	}
	switch kind {
	case "status-drop":
		var ev domain.StatusDrop
		if err := dec(&ev); err != nil {
			return nil, errors.New("invalid status-drop data")
		}
		return ev, nil
	case "date-resize":
		var ev domain.DateResize
		if err := dec(&ev); err != nil {
			return nil, errors.New("invalid date-resize data")
		}
		return ev, nil
	case "new-task":
		var ev domain.NewTask
		if err := dec(&ev); err != nil {
			return nil, errors.New("invalid new-task data")
		}
		return ev, nil
	default:
		return nil, errors.New("unknown event type " + kind)
	}
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, maxRequestBody)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func filterFromQuery(c echo.Context) (domain.Filter, error) {
	var f domain.Filter
	for _, s := range c.QueryParams()["status"] {
		st := domain.Status(s)
		if !st.Valid() {
			return domain.Filter{}, errors.New("unknown status " + s)
		}
		f.Statuses = append(f.Statuses, st)
	}
	for _, p := range c.QueryParams()["priority"] {
		if p != "a" && p != "b" && p != "c" {
			return domain.Filter{}, errors.New("unknown priority " + p)
		}
		f.Priorities = append(f.Priorities, p)
	}
	f.Tags = append(f.Tags, c.QueryParams()["tag"]...)
	return f, nil
}

// gatewayError maps typed storage and board errors onto HTTP statuses.
func gatewayError(c echo.Context, err error) error {
	var (
		notFound NotFoundError
		tooLarge TooLargeError
		badName  BadNameError
		stale    *StaleRevisionError
		lineErr  *board.LineRangeError
		badDrop  *board.UnknownStatusError
	)
	switch {
	case errors.As(err, &notFound):
		return c.String(http.StatusNotFound, err.Error())
	case errors.As(err, &tooLarge):
		return c.String(http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &badName):
		return c.String(http.StatusBadRequest, err.Error())
	case errors.As(err, &stale):
		return c.String(http.StatusConflict, err.Error())
	case errors.As(err, &lineErr):
		return c.String(http.StatusNotFound, err.Error())
	case errors.As(err, &badDrop):
		return c.String(http.StatusBadRequest, err.Error())
	default:
		c.Logger().Error(err)
		return c.String(http.StatusInternalServerError, err.Error())
	}
}
