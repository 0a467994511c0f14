package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"detailing_portal_backend/internal/registry/service"
	"detailing_portal_backend/internal/registry/transport"
	"detailing_portal_backend/platform/httpkit"
	"detailing_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler exposes registry CRUD routes.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new registry handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the registry routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients", h.ListClients)
	rg.POST("/clients", h.CreateClient)
	rg.GET("/clients/:id", h.GetClient)
	rg.GET("/vehicles", h.ListVehicles)
	rg.POST("/vehicles", h.CreateVehicle)
	rg.GET("/vehicles/:id", h.GetVehicle)
	rg.PUT("/vehicles/:id/owners/:clientId", h.AssignOwner)
	rg.DELETE("/vehicles/:id/owners/:clientId", h.RemoveOwner)
}

// ListClients returns all clients.
func (h *Handler) ListClients(c *gin.Context) {
	result, err := h.svc.ListClients(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateClient registers a new client.
func (h *Handler) CreateClient(c *gin.Context) {
	var req transport.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateClient(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// GetClient returns one client by id.
func (h *Handler) GetClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetClient(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListVehicles returns all vehicles.
func (h *Handler) ListVehicles(c *gin.Context) {
	result, err := h.svc.ListVehicles(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateVehicle registers a new vehicle.
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req transport.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateVehicle(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// GetVehicle returns one vehicle by id.
func (h *Handler) GetVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetVehicle(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AssignOwner links a client to a vehicle.
func (h *Handler) AssignOwner(c *gin.Context) {
	vehicleID, clientID, ok := parseOwnerPair(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.AssignOwner(c.Request.Context(), vehicleID, clientID)) {
		return
	}
	httpkit.NoContent(c)
}

// RemoveOwner unlinks a client from a vehicle.
func (h *Handler) RemoveOwner(c *gin.Context) {
	vehicleID, clientID, ok := parseOwnerPair(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.RemoveOwner(c.Request.Context(), vehicleID, clientID)) {
		return
	}
	httpkit.NoContent(c)
}

func parseOwnerPair(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, uuid.Nil, false
	}
	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, uuid.Nil, false
	}
	return vehicleID, clientID, true
}
