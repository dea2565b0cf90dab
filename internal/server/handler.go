package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javiermolinar/bangumi/internal/column"
	"github.com/javiermolinar/bangumi/internal/dateutil"
	"github.com/javiermolinar/bangumi/internal/epg"
	"github.com/javiermolinar/bangumi/internal/guide"
)

// Handler serves guide data from a stored snapshot.
type Handler struct {
	repo   epg.Repository
	opts   guide.Options
	tabs   []column.Tab
	logger *slog.Logger

	mu       sync.Mutex
	cached   *epg.Dataset
	cachedAt time.Time
}

// NewHandler creates a handler. Options are used for every guide it builds.
func NewHandler(repo epg.Repository, opts guide.Options, tabs []column.Tab, logger *slog.Logger) *Handler {
	if len(tabs) == 0 {
		tabs = column.DefaultTabs()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{repo: repo, opts: opts, tabs: tabs, logger: logger}
}

// Health reports liveness and the last sync time.
func (h *Handler) Health(c *gin.Context) {
	last, err := h.repo.LastSync(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "server.health.last_sync", "error", err)
		RespondError(c, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	resp := gin.H{"status": "ok"}
	if !last.IsZero() {
		resp["last_sync"] = last.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

// ListTabs returns the configured tabs.
func (h *Handler) ListTabs(c *gin.Context) {
	tabs := make([]tabResponse, len(h.tabs))
	for i, t := range h.tabs {
		tabs[i] = newTabResponse(t)
	}
	c.JSON(http.StatusOK, gin.H{"tabs": tabs})
}

// ListColumns returns the resolved columns of a tab.
func (h *Handler) ListColumns(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	ds, ok := h.dataset(c)
	if !ok {
		return
	}

	g := guide.BuildDays(tab, &epg.Dataset{Services: ds.Services, Channels: ds.Channels}, nil, h.opts)
	columns := make([]columnResponse, len(g.Columns))
	for i, col := range g.Columns {
		columns[i] = newColumnResponse(col)
	}
	c.JSON(http.StatusOK, gin.H{"tab": tab.Name, "columns": columns})
}

// GetDay returns one laid-out day of a tab.
func (h *Handler) GetDay(c *gin.Context) {
	tab, ok := h.tab(c)
	if !ok {
		return
	}
	key, err := dateutil.ParseDayArg(c.Param("day"), h.opts.Now(), h.opts.Location)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	ds, ok := h.dataset(c)
	if !ok {
		return
	}

	g := guide.BuildDays(tab, ds, []string{key}, h.opts)
	c.JSON(http.StatusOK, newDayResponse(g, g.Days[0]))
}

// GetProgram returns a single program record.
func (h *Handler) GetProgram(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid program id")
		return
	}

	p, err := h.repo.GetProgram(c.Request.Context(), id)
	if errors.Is(err, epg.ErrProgramNotFound) {
		RespondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "server.program.get", "id", id, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage error")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) tab(c *gin.Context) (column.Tab, bool) {
	name := c.Param("tab")
	for _, t := range h.tabs {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	RespondError(c, http.StatusNotFound, "unknown tab "+name)
	return column.Tab{}, false
}

// dataset returns the stored snapshot, reloading it only after a new sync.
func (h *Handler) dataset(c *gin.Context) (*epg.Dataset, bool) {
	ctx := c.Request.Context()
	last, err := h.repo.LastSync(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "server.dataset.last_sync", "error", err)
		RespondError(c, http.StatusInternalServerError, "storage error")
		return nil, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cached != nil && h.cachedAt.Equal(last) {
		return h.cached, true
	}

	ds, err := h.repo.LoadDataset(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "server.dataset.load", "error", err)
		RespondError(c, http.StatusInternalServerError, "storage error")
		return nil, false
	}
	h.cached, h.cachedAt = ds, last
	h.logger.DebugContext(ctx, "server.dataset.reloaded", "programs", len(ds.Programs))
	return ds, true
}
