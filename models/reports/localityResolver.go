package reports

import (
	"fmt"

	"bitbucket.org/grupoavance/lending_backend/models"
)

const generalLocality = "General"

// resolveLocality maps a transaction to its stable business-locality key,
// over lookup maps that were prefetched in bulk. Fallback order:
//
//  1. lead -> first located address: "{fullName} - {locationName}"
//  2. route (snapshot preferred over live): the route name, prefixed with the
//     raw lead id when the lead reference did not resolve
//  3. "General"
//
// The snapshot route preserves the locality that was true when the
// transaction occurred, even after the lead was reassigned.
func resolveLocality(txn *models.Transaction, leads map[int]models.Lead, routes map[int]models.Route) string {
	var leadResolved bool
	if txn.LeadId > 0 {
		lead, ok := leads[txn.LeadId]
		leadResolved = ok
		if ok {
			if locationName := lead.FirstLocationName(); locationName != "" {
				return lead.FullName() + " - " + locationName
			}
		}
	}

	if routeId := txn.EffectiveRouteId(); routeId > 0 {
		if route, ok := routes[routeId]; ok && route.Name != "" {
			if txn.LeadId > 0 && !leadResolved {
				return fmt.Sprintf("Líder ID: %d - %s", txn.LeadId, route.Name)
			}
			return route.Name
		}
	}

	return generalLocality
}
