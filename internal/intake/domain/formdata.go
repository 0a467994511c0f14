package domain

import (
	"strconv"

	"detailing_portal_backend/internal/intake/ports"
)

// Form field names shared with the intake form frontend.
const (
	FormOwnerName      = "ownerName"
	FormCompanyName    = "companyName"
	FormTaxID          = "taxId"
	FormEmail          = "email"
	FormPhone          = "phone"
	FormLicensePlate   = "licensePlate"
	FormMake           = "make"
	FormModel          = "model"
	FormProductionYear = "productionYear"
	FormVIN            = "vin"
	FormColor          = "color"
	FormReferralSource = "referralSource"
)

// ReferralRegularCustomer marks a form as coming from a returning client.
// The owner search flow stamps it whenever a known client is resolved.
const ReferralRegularCustomer = "regular_customer"

// FormPatch is a partial set of form field values. Patches are merged
// non-destructively into the caller's form state; keys absent from the patch
// are left alone.
type FormPatch map[string]string

// Merge overlays patch onto base and returns the combined patch. Neither
// input is mutated. Every key present in patch wins, including empty-string
// values, so a patch derived from an entity with absent optionals still
// clears stale values from a previously selected entity.
func Merge(base, patch FormPatch) FormPatch {
	out := make(FormPatch, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// MapClientToFormData projects a client onto its intake form fields.
// Total: absent optionals become empty strings, never missing keys.
func MapClientToFormData(c ports.Client) FormPatch {
	return FormPatch{
		FormOwnerName:   c.FirstName + " " + c.LastName,
		FormCompanyName: deref(c.Company),
		FormTaxID:       deref(c.TaxID),
		FormEmail:       c.Email,
		FormPhone:       c.Phone,
	}
}

// MapVehicleToFormData projects a vehicle onto its intake form fields.
// Total: absent optionals become empty strings, never missing keys.
func MapVehicleToFormData(v ports.Vehicle) FormPatch {
	return FormPatch{
		FormLicensePlate:   v.LicensePlate,
		FormMake:           v.Make,
		FormModel:          v.Model,
		FormProductionYear: strconv.Itoa(v.Year),
		FormVIN:            deref(v.VIN),
		FormColor:          deref(v.Color),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
