package domain

import catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"

// FilterRates returns the (zone, rate) pairs matched by the selector,
// preserving zone order and rate order within each zone. With every
// dimension empty it returns every pair.
func FilterRates(zones []catalogdomain.Zone, selector RateSelector) []ZoneRate {
	zoneIDs := toSet(selector.ZoneIDs)
	countries := toSet(selector.Countries)
	categories := toSet(selector.Categories)

	var out []ZoneRate
	for _, zone := range zones {
		if len(zoneIDs) > 0 && !zoneIDs[zone.ID] {
			continue
		}
		if len(countries) > 0 && !anyIn(zone.Countries, countries) {
			continue
		}
		for _, rate := range zone.Rates {
			if len(categories) > 0 && (rate.Category == "" || !categories[rate.Category]) {
				continue
			}
			out = append(out, ZoneRate{Zone: zone, Rate: rate})
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func anyIn(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}
