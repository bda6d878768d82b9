package reports

import (
	"testing"

	"bitbucket.org/grupoavance/lending_backend/models"
)

func locatedLead(id int, firstName, lastName, locationName string) models.Lead {
	return models.Lead{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Addresses: []models.Address{
			{LeadId: id, Location: &models.Location{Name: locationName}},
		},
	}
}

func TestResolveLocalityFromLeadAddress(t *testing.T) {
	leads := map[int]models.Lead{7: locatedLead(7, "María", "González", "Centro")}
	txn := &models.Transaction{LeadId: 7, RouteId: 3}

	got := resolveLocality(txn, leads, map[int]models.Route{3: {ID: 3, Name: "Ruta Norte"}})
	if got != "María González - Centro" {
		t.Fatalf("locality = %q, want %q", got, "María González - Centro")
	}
}

func TestResolveLocalityLeadWithoutLocationFallsToRoute(t *testing.T) {
	leads := map[int]models.Lead{7: {ID: 7, FirstName: "María", LastName: "González"}}
	routes := map[int]models.Route{3: {ID: 3, Name: "Ruta Norte"}}
	txn := &models.Transaction{LeadId: 7, RouteId: 3}

	// Lead resolved but has no located address: plain route name, no prefix.
	got := resolveLocality(txn, leads, routes)
	if got != "Ruta Norte" {
		t.Fatalf("locality = %q, want %q", got, "Ruta Norte")
	}
}

func TestResolveLocalityUnresolvedLeadPrefixesRouteName(t *testing.T) {
	routes := map[int]models.Route{3: {ID: 3, Name: "Ruta Norte"}}
	txn := &models.Transaction{LeadId: 42, RouteId: 3}

	got := resolveLocality(txn, map[int]models.Lead{}, routes)
	if got != "Líder ID: 42 - Ruta Norte" {
		t.Fatalf("locality = %q, want %q", got, "Líder ID: 42 - Ruta Norte")
	}
}

func TestResolveLocalityPrefersSnapshotRoute(t *testing.T) {
	routes := map[int]models.Route{
		3: {ID: 3, Name: "Ruta Norte"},
		9: {ID: 9, Name: "Ruta Histórica"},
	}
	txn := &models.Transaction{RouteId: 3, SnapshotRouteId: 9}

	got := resolveLocality(txn, map[int]models.Lead{}, routes)
	if got != "Ruta Histórica" {
		t.Fatalf("locality = %q, want snapshot route name", got)
	}
}

func TestResolveLocalityGeneralFallback(t *testing.T) {
	txn := &models.Transaction{}
	if got := resolveLocality(txn, map[int]models.Lead{}, map[int]models.Route{}); got != "General" {
		t.Fatalf("locality = %q, want General", got)
	}

	// Unresolvable route id also falls through.
	txn = &models.Transaction{RouteId: 3}
	if got := resolveLocality(txn, map[int]models.Lead{}, map[int]models.Route{}); got != "General" {
		t.Fatalf("locality = %q, want General", got)
	}
}
