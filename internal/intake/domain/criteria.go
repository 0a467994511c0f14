// Package domain holds the intake engine's pure core: search criteria,
// field matching and the entity-to-form-data projection. Nothing in this
// package touches the store or performs I/O.
package domain

import (
	"fmt"

	"detailing_portal_backend/internal/intake/ports"
)

// EntityKind distinguishes which entity collection a search field targets.
type EntityKind int

const (
	// KindClient fields match against the client collection.
	KindClient EntityKind = iota
	// KindVehicle fields match against the vehicle collection.
	KindVehicle
)

// SearchField identifies the attribute a criterion filters on. The set is
// closed: each field is statically paired with the entity kind it belongs
// to, so a criterion can never aim a client field at the vehicle collection.
type SearchField string

const (
	FieldLicensePlate SearchField = "licensePlate"
	FieldOwnerName    SearchField = "ownerName"
	FieldCompanyName  SearchField = "companyName"
	FieldTaxID        SearchField = "taxId"
	FieldEmail        SearchField = "email"
	FieldPhone        SearchField = "phone"
)

// Kind returns the entity kind the field targets.
func (f SearchField) Kind() EntityKind {
	if f == FieldLicensePlate {
		return KindVehicle
	}
	return KindClient
}

// Valid reports whether f is one of the known search fields.
func (f SearchField) Valid() bool {
	switch f {
	case FieldLicensePlate, FieldOwnerName, FieldCompanyName, FieldTaxID, FieldEmail, FieldPhone:
		return true
	}
	return false
}

// ParseField converts a wire value into a SearchField.
func ParseField(raw string) (SearchField, error) {
	f := SearchField(raw)
	if !f.Valid() {
		return "", fmt.Errorf("unknown search field %q", raw)
	}
	return f, nil
}

// SearchResults holds the outcome of one dispatched search. Both lists keep
// the underlying store's scan order; either may be empty.
type SearchResults struct {
	Vehicles []ports.Vehicle
	Clients  []ports.Client
}
