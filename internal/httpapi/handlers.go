package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"turret-console/internal/backend"
	"turret-console/internal/live"
	"turret-console/internal/view"
	"turret-console/pkg/logger"
)

// ConnectionStatus is the slice of the stream transport the handlers need.
type ConnectionStatus interface {
	Connected() bool
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Backend *backend.Client
	Live    *live.Reconciler
	Stream  ConnectionStatus

	// Refresh requests an out-of-cycle snapshot refetch. Optional.
	Refresh func()
}

// --- Dashboard ---

func (h Handlers) Dashboard(c *gin.Context) {
	channels := h.Live.Channels()
	c.JSON(http.StatusOK, gin.H{
		"connected":        h.connected(),
		"showNotification": h.Live.PulseActive(),
		"turrets":          h.Live.Turrets(),
		"channels":         channels,
		"stats":            view.Stats(channels),
	})
}

func (h Handlers) DashboardStats(c *gin.Context) {
	c.JSON(http.StatusOK, view.Stats(h.Live.Channels()))
}

func (h Handlers) Messages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.Live.Messages()})
}

func (h Handlers) ClearMessages(c *gin.Context) {
	h.Live.ClearMessages()
	c.Status(http.StatusNoContent)
}

func (h Handlers) RequestRefresh(c *gin.Context) {
	if h.Refresh == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot refresh not configured"})
		return
	}
	h.Refresh()
	c.Status(http.StatusAccepted)
}

func (h Handlers) connected() bool {
	return h.Stream != nil && h.Stream.Connected()
}

// --- Turret inventory (proxied to the upstream service) ---

func (h Handlers) ListTurrets(c *gin.Context) {
	turrets, err := h.Backend.ListTurrets(c.Request.Context())
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, turrets)
}

func (h Handlers) ListActiveTurrets(c *gin.Context) {
	turrets, err := h.Backend.ListActiveTurrets(c.Request.Context())
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, turrets)
}

func (h Handlers) CreateTurret(c *gin.Context) {
	var in backend.Turret
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Backend.CreateTurret(c.Request.Context(), in)
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateTurret(c *gin.Context) {
	id := c.Param("id")
	var in backend.Turret
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Backend.UpdateTurret(c.Request.Context(), id, in)
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteTurret(c *gin.Context) {
	if err := h.Backend.DeleteTurret(c.Request.Context(), c.Param("id")); err != nil {
		h.backendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- IP phone inventory ---

func (h Handlers) ListDevices(c *gin.Context) {
	devices, err := h.Backend.ListDevices(c.Request.Context())
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (h Handlers) CreateDevice(c *gin.Context) {
	var in backend.Device
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Backend.CreateDevice(c.Request.Context(), in)
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateDevice(c *gin.Context) {
	id := c.Param("id")
	var in backend.Device
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out, err := h.Backend.UpdateDevice(c.Request.Context(), id, in)
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UploadDevices acknowledges a bulk device file without processing it.
// The upstream system has no bulk-import endpoint yet; the console accepts
// the file so the workflow exists end to end and reports it as queued.
func (h Handlers) UploadDevices(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	logger.FromGin(c).Info("device upload accepted", "name", file.Filename, "size", file.Size)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "file": file.Filename})
}

func (h Handlers) DeleteDevice(c *gin.Context) {
	if err := h.Backend.DeleteDevice(c.Request.Context(), c.Param("id")); err != nil {
		h.backendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Reports ---

func (h Handlers) CallAuditReport(c *gin.Context) {
	serveReport(c, h, h.Backend.CallAudit, func(r backend.CallAuditRow) view.RowFields {
		return view.RowFields{CreatedOn: r.CreatedOn, Turret: r.TurretName, Line: r.LineName, Party: r.PartyNumber, State: r.State}
	})
}

func (h Handlers) IPPhoneAuditReport(c *gin.Context) {
	serveReport(c, h, h.Backend.IPPhoneAudit, func(r backend.IPPhoneAuditRow) view.RowFields {
		return view.RowFields{CreatedOn: r.CreatedOn, Party: r.PartyNumber, State: r.State, Device: r.DeviceIdentifier}
	})
}

func (h Handlers) IPPhoneDisconnectReport(c *gin.Context) {
	serveReport(c, h, h.Backend.IPPhoneDisconnects, func(r backend.IPPhoneDisconnectRow) view.RowFields {
		return view.RowFields{CreatedOn: r.CreatedOn, Party: r.PartyNumber, Device: r.DeviceIdentifier}
	})
}

func (h Handlers) TurretDisconnectReport(c *gin.Context) {
	serveReport(c, h, h.Backend.TurretDisconnects, func(r backend.TurretDisconnectRow) view.RowFields {
		return view.RowFields{CreatedOn: r.CreatedOn, Turret: r.TurretName, Line: r.LineNo, Party: r.PartyNumber}
	})
}

// serveReport fetches a report collection upstream, then filters and
// paginates it from query parameters.
func serveReport[T any](c *gin.Context, h Handlers, fetch func(context.Context) ([]T, error), fields func(T) view.RowFields) {
	rows, err := fetch(c.Request.Context())
	if err != nil {
		h.backendError(c, err)
		return
	}

	filter := view.ReportFilter{
		Turret: c.Query("turret"),
		Line:   c.Query("line"),
		Party:  c.Query("party"),
		State:  c.Query("state"),
		Device: c.Query("device"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
	filtered := view.FilterRows(rows, filter, fields)

	pager := view.NewPager(queryInt(c, "size", 10))
	pager.SetPage(queryInt(c, "page", 1), len(filtered))

	c.JSON(http.StatusOK, gin.H{
		"rows":       view.Page(filtered, pager.Page(), pager.Size()),
		"totalItems": len(filtered),
		"totalPages": view.TotalPages(len(filtered), pager.Size()),
		"page":       pager.Page(),
		"size":       pager.Size(),
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// backendError surfaces an upstream failure: the upstream's own status and
// message when it answered, 502 when it did not.
func (h Handlers) backendError(c *gin.Context, err error) {
	logger.FromGin(c).Error("backend request failed", "err", err)

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"error": apiErr.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
