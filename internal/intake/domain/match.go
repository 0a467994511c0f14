package domain

import (
	"strings"

	"detailing_portal_backend/internal/intake/ports"
	"detailing_portal_backend/platform/phone"
)

// MatchVehicles filters vehicles against a vehicle-kind field. The only
// vehicle field is the license plate: case-insensitive substring match.
// Callers must not pass a blank value; that is rejected upstream.
func MatchVehicles(field SearchField, value string, vehicles []ports.Vehicle) []ports.Vehicle {
	if field != FieldLicensePlate {
		return nil
	}

	needle := strings.ToLower(strings.TrimSpace(value))
	matches := make([]ports.Vehicle, 0)
	for _, v := range vehicles {
		if strings.Contains(strings.ToLower(v.LicensePlate), needle) {
			matches = append(matches, v)
		}
	}
	return matches
}

// MatchClients filters clients against a client-kind field. Text fields use
// case-insensitive substring matching; a client missing an optional field
// never matches on it. Phone matching compares digit sequences, normalizing
// both sides to E.164 for the given region when they parse.
func MatchClients(field SearchField, value, phoneRegion string, clients []ports.Client) []ports.Client {
	needle := strings.ToLower(strings.TrimSpace(value))
	matches := make([]ports.Client, 0)

	for _, c := range clients {
		if clientMatches(field, needle, value, phoneRegion, c) {
			matches = append(matches, c)
		}
	}
	return matches
}

func clientMatches(field SearchField, needle, rawValue, phoneRegion string, c ports.Client) bool {
	switch field {
	case FieldOwnerName:
		fullName := strings.ToLower(c.FirstName + " " + c.LastName)
		return strings.Contains(fullName, needle)
	case FieldCompanyName:
		if c.Company == nil {
			return false
		}
		return strings.Contains(strings.ToLower(*c.Company), needle)
	case FieldTaxID:
		if c.TaxID == nil {
			return false
		}
		return strings.Contains(strings.ToLower(*c.TaxID), needle)
	case FieldEmail:
		return c.Email != "" && strings.Contains(strings.ToLower(c.Email), needle)
	case FieldPhone:
		return phoneContains(c.Phone, rawValue, phoneRegion)
	}
	return false
}

// phoneContains reports whether the query digits occur within the client's
// phone digits. Both sides are normalized to E.164 first so "+48601100100"
// finds "601 100 100" and vice versa.
func phoneContains(stored, query, region string) bool {
	if stored == "" {
		return false
	}

	storedDigits := phone.Digits(phone.NormalizeE164(stored, region))
	queryDigits := phone.Digits(phone.NormalizeE164(query, region))
	if queryDigits == "" {
		return false
	}
	return strings.Contains(storedDigits, queryDigits)
}
