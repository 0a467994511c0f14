package transport

import (
	"detailing_portal_backend/internal/registry/repository"
)

// CreateClientRequest is the payload for registering a new client.
type CreateClientRequest struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"required,max=32"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=255"`
	Company   *string `json:"company,omitempty" validate:"omitempty,max=255"`
	TaxID     *string `json:"taxId,omitempty" validate:"omitempty,max=32"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CreateVehicleRequest is the payload for registering a new vehicle.
type CreateVehicleRequest struct {
	Make         string   `json:"make" validate:"required,max=100"`
	Model        string   `json:"model" validate:"required,max=100"`
	Year         int      `json:"year" validate:"required,min=1900,max=2100"`
	LicensePlate string   `json:"licensePlate" validate:"required,max=16"`
	VIN          *string  `json:"vin,omitempty" validate:"omitempty,len=17"`
	Color        *string  `json:"color,omitempty" validate:"omitempty,max=50"`
	OwnerIDs     []string `json:"ownerIds,omitempty" validate:"omitempty,dive,uuid"`
}

// ClientResponse is the JSON projection of a client.
type ClientResponse struct {
	ID         string   `json:"id"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Address    *string  `json:"address,omitempty"`
	Company    *string  `json:"company,omitempty"`
	TaxID      *string  `json:"taxId,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	VehicleIDs []string `json:"vehicleIds"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// VehicleResponse is the JSON projection of a vehicle.
type VehicleResponse struct {
	ID           string   `json:"id"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	LicensePlate string   `json:"licensePlate"`
	VIN          *string  `json:"vin,omitempty"`
	Color        *string  `json:"color,omitempty"`
	OwnerIDs     []string `json:"ownerIds"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// ClientListResponse wraps a client listing.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Total int              `json:"total"`
}

// VehicleListResponse wraps a vehicle listing.
type VehicleListResponse struct {
	Items []VehicleResponse `json:"items"`
	Total int               `json:"total"`
}

// FromClient converts a repository client into its response form.
func FromClient(c repository.Client) ClientResponse {
	vehicleIDs := make([]string, 0, len(c.VehicleIDs))
	for _, id := range c.VehicleIDs {
		vehicleIDs = append(vehicleIDs, id.String())
	}
	return ClientResponse{
		ID:         c.ID.String(),
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		Company:    c.Company,
		TaxID:      c.TaxID,
		Notes:      c.Notes,
		VehicleIDs: vehicleIDs,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// FromVehicle converts a repository vehicle into its response form.
func FromVehicle(v repository.Vehicle) VehicleResponse {
	ownerIDs := make([]string, 0, len(v.OwnerIDs))
	for _, id := range v.OwnerIDs {
		ownerIDs = append(ownerIDs, id.String())
	}
	return VehicleResponse{
		ID:           v.ID.String(),
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		LicensePlate: v.LicensePlate,
		VIN:          v.VIN,
		Color:        v.Color,
		OwnerIDs:     ownerIDs,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
