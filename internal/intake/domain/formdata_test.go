package domain

import (
	"testing"

	"detailing_portal_backend/internal/intake/ports"
)

func TestMapClientToFormData(t *testing.T) {
	full := ports.Client{
		FirstName: "Anna", LastName: "Nowak",
		Email: "biuro@nowaktrans.pl", Phone: "+48602200200",
		Company: strPtr("Nowak Trans Sp. z o.o."), TaxID: strPtr("5213456789"),
	}
	patch := MapClientToFormData(full)

	expect := map[string]string{
		FormOwnerName:   "Anna Nowak",
		FormCompanyName: "Nowak Trans Sp. z o.o.",
		FormTaxID:       "5213456789",
		FormEmail:       "biuro@nowaktrans.pl",
		FormPhone:       "+48602200200",
	}
	for key, want := range expect {
		if patch[key] != want {
			t.Errorf("%s: expected %q, got %q", key, want, patch[key])
		}
	}
}

func TestMapClientToFormDataTotality(t *testing.T) {
	// A client with every optional absent still yields a value for
	// every client-owned form field.
	patch := MapClientToFormData(ports.Client{FirstName: "Jan", LastName: "Kowalski"})

	for _, key := range []string{FormOwnerName, FormCompanyName, FormTaxID, FormEmail, FormPhone} {
		if _, ok := patch[key]; !ok {
			t.Errorf("missing key %s for client without optionals", key)
		}
	}
	if patch[FormCompanyName] != "" || patch[FormTaxID] != "" {
		t.Error("absent optionals must map to empty strings")
	}
}

func TestMapVehicleToFormData(t *testing.T) {
	patch := MapVehicleToFormData(ports.Vehicle{
		Make: "Audi", Model: "A6", Year: 2019,
		LicensePlate: "WA12345",
		VIN:          strPtr("WAUZZZ4G7KN000001"),
		Color:        strPtr("czarny"),
	})

	expect := map[string]string{
		FormLicensePlate:   "WA12345",
		FormMake:           "Audi",
		FormModel:          "A6",
		FormProductionYear: "2019",
		FormVIN:            "WAUZZZ4G7KN000001",
		FormColor:          "czarny",
	}
	for key, want := range expect {
		if patch[key] != want {
			t.Errorf("%s: expected %q, got %q", key, want, patch[key])
		}
	}
}

func TestMapVehicleToFormDataTotality(t *testing.T) {
	patch := MapVehicleToFormData(ports.Vehicle{Make: "Fiat", Model: "Panda", Year: 2012, LicensePlate: "WF60606"})

	for _, key := range []string{FormLicensePlate, FormMake, FormModel, FormProductionYear, FormVIN, FormColor} {
		if _, ok := patch[key]; !ok {
			t.Errorf("missing key %s for vehicle without optionals", key)
		}
	}
}

func TestMergeDoesNotMutate(t *testing.T) {
	base := FormPatch{FormOwnerName: "Jan Kowalski", FormPhone: "+48601100100"}
	patch := FormPatch{FormOwnerName: "Anna Nowak", FormEmail: "biuro@nowaktrans.pl"}

	merged := Merge(base, patch)

	if base[FormOwnerName] != "Jan Kowalski" {
		t.Fatal("Merge mutated the base map")
	}
	if merged[FormOwnerName] != "Anna Nowak" {
		t.Errorf("patch value must win, got %q", merged[FormOwnerName])
	}
	if merged[FormPhone] != "+48601100100" {
		t.Error("fields absent from the patch must survive the merge")
	}
	if merged[FormEmail] != "biuro@nowaktrans.pl" {
		t.Error("new fields from the patch must be added")
	}
}

func TestMergeNilBase(t *testing.T) {
	merged := Merge(nil, FormPatch{FormEmail: "x@y.pl"})
	if merged[FormEmail] != "x@y.pl" {
		t.Fatal("merge over nil base must behave like merge over empty base")
	}
}
