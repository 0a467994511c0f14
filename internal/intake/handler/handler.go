package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domevents "detailing_portal_backend/internal/events"
	"detailing_portal_backend/internal/intake/domain"
	"detailing_portal_backend/internal/intake/session"
	"detailing_portal_backend/internal/intake/transport"
	"detailing_portal_backend/platform/events"
	"detailing_portal_backend/platform/httpkit"
	"detailing_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"

	flowOwner   = "owner"
	flowVehicle = "vehicle"
)

// Handler exposes the intake session and resolution routes.
type Handler struct {
	sessions *session.Store
	val      *validator.Validator
	bus      events.Bus
}

// New creates a new intake handler.
func New(sessions *session.Store, val *validator.Validator, bus events.Bus) *Handler {
	return &Handler{sessions: sessions, val: val, bus: bus}
}

// RegisterRoutes mounts the intake routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.CreateSession)
	rg.GET("/sessions/:id", h.GetSession)
	rg.DELETE("/sessions/:id", h.DeleteSession)

	rg.POST("/sessions/:id/owner/search", h.OwnerSearch)
	rg.POST("/sessions/:id/owner/select-client", h.OwnerSelectClient)
	rg.POST("/sessions/:id/owner/select-vehicle", h.OwnerSelectVehicle)
	rg.POST("/sessions/:id/owner/clear", h.OwnerClear)

	rg.POST("/sessions/:id/vehicle/search", h.VehicleSearch)
	rg.POST("/sessions/:id/vehicle/select-vehicle", h.VehicleSelectVehicle)
	rg.POST("/sessions/:id/vehicle/select-client", h.VehicleSelectClient)
	rg.POST("/sessions/:id/vehicle/clear", h.VehicleClear)
}

// CreateSession opens a fresh intake session.
func (h *Handler) CreateSession(c *gin.Context) {
	sess := h.sessions.Create(c.Request.Context())
	httpkit.Created(c, transport.FromSession(sess))
}

// GetSession returns both flow snapshots.
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.FromSession(sess))
}

// DeleteSession drops the session immediately.
func (h *Handler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	h.sessions.Delete(id)
	httpkit.NoContent(c)
}

// OwnerSearch runs a client-field search on the owner flow.
func (h *Handler) OwnerSearch(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req transport.OwnerSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	snap, err := sess.Owner.Search(c.Request.Context(), domain.SearchField(req.Field), req.Value)
	if httpkit.HandleError(c, err) {
		return
	}
	h.bus.Publish(c.Request.Context(), domevents.NewSearchCompleted(
		sess.ID, flowOwner, req.Field, string(snap.State), len(snap.FoundVehicles), len(snap.FoundClients)))
	httpkit.OK(c, transport.FlowSnapshot(sess, snap))
}

// OwnerSelectClient confirms a client candidate on the owner flow.
func (h *Handler) OwnerSelectClient(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.bindSelectClient(c)
	if !ok {
		return
	}

	snap, err := sess.Owner.SelectClient(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	h.bus.Publish(c.Request.Context(), domevents.NewClientResolved(sess.ID, flowOwner, id))
	httpkit.OK(c, transport.FlowSnapshot(sess, snap))
}

// OwnerSelectVehicle confirms a vehicle from the owner flow's fan-out.
func (h *Handler) OwnerSelectVehicle(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.bindSelectVehicle(c)
	if !ok {
		return
	}

	snap, err := sess.Owner.SelectVehicle(id)
	if httpkit.HandleError(c, err) {
		return
	}
	h.bus.Publish(c.Request.Context(), domevents.NewVehicleResolved(sess.ID, flowOwner, id))
	httpkit.OK(c, transport.FlowSnapshot(sess, snap))
}

// OwnerClear abandons the owner flow.
func (h *Handler) OwnerClear(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.FlowSnapshot(sess, sess.Owner.Clear()))
}

// VehicleSearch runs a license-plate search on the vehicle flow.
func (h *Handler) VehicleSearch(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req transport.VehicleSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	snap, err := sess.Vehicle.Search(c.Request.Context(), req.Value)
	if httpkit.HandleError(c, err) {
		return
	}
	h.bus.Publish(c.Request.Context(), domevents.NewSearchCompleted(
		sess.ID, flowVehicle, string(domain.FieldLicensePlate), string(snap.State), len(snap.FoundVehicles), len(snap.FoundClients)))
	httpkit.OK(c, transport.FlowSnapshot(sess, snap))
}

// VehicleSelectVehicle confirms a plate candidate on the vehicle flow.
func (h *Handler) VehicleSelectVehicle(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.bindSelectVehicle(c)
	if !ok {
		return
	}

	snap, err := sess.Vehicle.SelectVehicle(id)
	if httpkit.HandleError(c, err) {
		return
	}
	h.bus.Publish(c.Request.Context(), domevents.NewVehicleResolved(sess.ID, flowVehicle, id))
	httpkit.OK(c, transport.FlowSnapshot(sess, snap))
}

// VehicleSelectClient confirms a derived owner on the vehicle flow.
func (h *Handler) VehicleSelectClient(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.bindSelectClient(c)
	if !ok {
		return
	}

	snap, err := sess.Vehicle.SelectClient(id)
	if httpkit.HandleError(c, err) {
		return
	}
	h.bus.Publish(c.Request.Context(), domevents.NewClientResolved(sess.ID, flowVehicle, id))
	httpkit.OK(c, transport.FlowSnapshot(sess, snap))
}

// VehicleClear abandons the vehicle flow.
func (h *Handler) VehicleClear(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.FlowSnapshot(sess, sess.Vehicle.Clear()))
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return nil, false
	}
	sess, err := h.sessions.Get(id)
	if httpkit.HandleError(c, err) {
		return nil, false
	}
	return sess, true
}

func (h *Handler) bindSelectClient(c *gin.Context) (uuid.UUID, bool) {
	var req transport.SelectClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return uuid.Nil, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ClientID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) bindSelectVehicle(c *gin.Context) (uuid.UUID, bool) {
	var req transport.SelectVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return uuid.Nil, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.VehicleID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
