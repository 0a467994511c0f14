package repository

import (
	"context"

	"github.com/google/uuid"
)

// SeedFleet holds the entities created by SeedSampleFleet, keyed by the
// rough shape of the studio's regular customer base.
type SeedFleet struct {
	Kowalski   Client // owns the A6 only
	Nowak      Client // company client, owns the Transit and co-owns the Octavia
	Wisniewski Client // owns three cars
	AudiA6     Vehicle
	Transit    Vehicle
	Octavia    Vehicle // co-owned by Kowalski and Nowak
	Golf       Vehicle
	Corolla    Vehicle
	Panda      Vehicle
}

func strPtr(s string) *string { return &s }

// SeedSampleFleet populates an in-memory store with a small demo fleet.
// Used by the memory registry backend and by intake tests.
func SeedSampleFleet(ctx context.Context, s *InMemory) (*SeedFleet, error) {
	fleet := &SeedFleet{}
	var err error

	fleet.Kowalski, err = s.CreateClient(ctx, CreateClientParams{
		FirstName: "Jan",
		LastName:  "Kowalski",
		Email:     "jan.kowalski@example.com",
		Phone:     "+48 601 100 100",
		Address:   strPtr("ul. Polna 12, Warszawa"),
	})
	if err != nil {
		return nil, err
	}

	fleet.Nowak, err = s.CreateClient(ctx, CreateClientParams{
		FirstName: "Anna",
		LastName:  "Nowak",
		Email:     "biuro@nowaktrans.pl",
		Phone:     "+48 602 200 200",
		Company:   strPtr("Nowak Trans Sp. z o.o."),
		TaxID:     strPtr("5213456789"),
	})
	if err != nil {
		return nil, err
	}

	fleet.Wisniewski, err = s.CreateClient(ctx, CreateClientParams{
		FirstName: "Piotr",
		LastName:  "Wiśniewski",
		Email:     "piotr.wisniewski@example.com",
		Phone:     "+48 603 300 300",
		Notes:     strPtr("prefers ceramic coating"),
	})
	if err != nil {
		return nil, err
	}

	fleet.AudiA6, err = s.CreateVehicle(ctx, CreateVehicleParams{
		Make: "Audi", Model: "A6", Year: 2019,
		LicensePlate: "WA12345",
		VIN:          strPtr("WAUZZZ4G7KN000001"),
		Color:        strPtr("black"),
		OwnerIDs:     []uuid.UUID{fleet.Kowalski.ID},
	})
	if err != nil {
		return nil, err
	}

	fleet.Transit, err = s.CreateVehicle(ctx, CreateVehicleParams{
		Make: "Ford", Model: "Transit", Year: 2021,
		LicensePlate: "WB20021",
		Color:        strPtr("white"),
		OwnerIDs:     []uuid.UUID{fleet.Nowak.ID},
	})
	if err != nil {
		return nil, err
	}

	fleet.Octavia, err = s.CreateVehicle(ctx, CreateVehicleParams{
		Make: "Skoda", Model: "Octavia", Year: 2020,
		LicensePlate: "WC30303",
		OwnerIDs:     []uuid.UUID{fleet.Kowalski.ID, fleet.Nowak.ID},
	})
	if err != nil {
		return nil, err
	}

	fleet.Golf, err = s.CreateVehicle(ctx, CreateVehicleParams{
		Make: "Volkswagen", Model: "Golf", Year: 2017,
		LicensePlate: "WD40404",
		Color:        strPtr("silver"),
		OwnerIDs:     []uuid.UUID{fleet.Wisniewski.ID},
	})
	if err != nil {
		return nil, err
	}

	fleet.Corolla, err = s.CreateVehicle(ctx, CreateVehicleParams{
		Make: "Toyota", Model: "Corolla", Year: 2022,
		LicensePlate: "WE50505",
		OwnerIDs:     []uuid.UUID{fleet.Wisniewski.ID},
	})
	if err != nil {
		return nil, err
	}

	fleet.Panda, err = s.CreateVehicle(ctx, CreateVehicleParams{
		Make: "Fiat", Model: "Panda", Year: 2015,
		LicensePlate: "WF60606",
		OwnerIDs:     []uuid.UUID{fleet.Wisniewski.ID},
	})
	if err != nil {
		return nil, err
	}

	return fleet, nil
}
