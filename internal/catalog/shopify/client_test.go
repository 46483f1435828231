package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/velobay/freightdesk/internal/catalog/domain"
)

const profilesFixture = `{
  "deliveryProfiles": {
    "edges": [{
      "node": {
        "id": "gid://shopify/DeliveryProfile/1",
        "name": "General Profile",
        "profileLocationGroups": [{
          "locationGroup": {"id": "gid://shopify/DeliveryLocationGroup/1"},
          "locationGroupZones": {
            "edges": [{
              "node": {
                "zone": {
                  "id": "gid://shopify/DeliveryZone/10",
                  "name": "Zone A",
                  "countries": [{"code": {"countryCode": "DE"}, "name": "Germany"}]
                },
                "methodDefinitions": {
                  "edges": [
                    {
                      "node": {
                        "id": "gid://shopify/DeliveryMethodDefinition/100",
                        "name": "Standard",
                        "active": true,
                        "methodConditions": [
                          {
                            "id": "gid://shopify/DeliveryCondition/1",
                            "field": "TOTAL_WEIGHT",
                            "operator": "GREATER_THAN_OR_EQUAL_TO",
                            "conditionCriteria": {"unit": "KILOGRAMS", "value": 15}
                          },
                          {
                            "id": "gid://shopify/DeliveryCondition/2",
                            "field": "TOTAL_WEIGHT",
                            "operator": "LESS_THAN_OR_EQUAL_TO",
                            "conditionCriteria": {"unit": "KILOGRAMS", "value": 30}
                          }
                        ],
                        "rateProvider": {
                          "id": "gid://shopify/DeliveryRateDefinition/100",
                          "price": {"amount": "120.00", "currencyCode": "EUR"}
                        }
                      }
                    },
                    {
                      "node": {
                        "id": "gid://shopify/DeliveryMethodDefinition/101",
                        "name": "Retired",
                        "active": false,
                        "methodConditions": [],
                        "rateProvider": {"id": "gid://shopify/DeliveryRateDefinition/101"}
                      }
                    }
                  ]
                }
              }
            }]
          }
        }]
      }
    }]
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newTestClient points a configured client at a fake GraphQL endpoint. The
// handler receives the decoded request and returns the raw "data" document.
func newTestClient(t *testing.T, handle func(t *testing.T, req graphqlRequest) string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_test" {
			t.Errorf("access token header = %q", got)
		}
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":` + handle(t, req) + `}`)); err != nil {
			t.Fatalf("write response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{Store: "test.myshopify.com", Token: "shpat_test"}, zap.NewNop())
	client.url = srv.URL
	return client
}

func TestListZonesFlattensProfiles(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphqlRequest) string {
		return profilesFixture
	})

	zones, err := client.ListZones(context.Background())
	if err != nil {
		t.Fatalf("ListZones: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("zones = %d, want 1", len(zones))
	}

	zone := zones[0]
	if zone.Name != "Germany" {
		t.Errorf("single-country zone name = %q, want Germany", zone.Name)
	}
	if len(zone.Countries) != 1 || zone.Countries[0] != "DE" {
		t.Errorf("countries = %v", zone.Countries)
	}
	if len(zone.Rates) != 1 {
		t.Fatalf("rates = %d, want 1 (inactive method skipped)", len(zone.Rates))
	}

	rate := zone.Rates[0]
	if !rate.Price.Equal(decimal.RequireFromString("120.00")) || rate.Currency != "EUR" {
		t.Errorf("price = %s %s", rate.Price, rate.Currency)
	}
	if !rate.HasWeightConditions {
		t.Error("expected weight conditions to be flagged")
	}
	if rate.MinWeight == nil || *rate.MinWeight != 15 {
		t.Errorf("min weight = %v", rate.MinWeight)
	}
	if rate.MaxWeight == nil || *rate.MaxWeight != 30 {
		t.Errorf("max weight = %v", rate.MaxWeight)
	}
}

func TestNotConfiguredShortCircuits(t *testing.T) {
	client := NewClient(Config{}, zap.NewNop())
	if _, err := client.ListZones(context.Background()); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestUpdateRateSendsMutation(t *testing.T) {
	var mutation graphqlRequest
	client := newTestClient(t, func(t *testing.T, req graphqlRequest) string {
		if strings.Contains(req.Query, "deliveryProfileUpdate") {
			mutation = req
			return `{"deliveryProfileUpdate":{"profile":{"id":"gid://shopify/DeliveryProfile/1","name":"General Profile"},"userErrors":[]}}`
		}
		return profilesFixture
	})

	name := "Standard"
	price := decimal.RequireFromString("99.50")
	currency := "EUR"
	err := client.UpdateRate(context.Background(), domain.RateKey{
		ZoneID: "gid://shopify/DeliveryZone/10",
		RateID: "gid://shopify/DeliveryMethodDefinition/100",
	}, domain.RatePatch{Name: &name, Price: &price, Currency: &currency})
	if err != nil {
		t.Fatalf("UpdateRate: %v", err)
	}

	if mutation.Variables["id"] != "gid://shopify/DeliveryProfile/1" {
		t.Errorf("mutation profile id = %v", mutation.Variables["id"])
	}
}

func TestUpdateRateUnknownZone(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphqlRequest) string {
		return profilesFixture
	})

	name := "Standard"
	price := decimal.NewFromInt(10)
	currency := "EUR"
	err := client.UpdateRate(context.Background(), domain.RateKey{
		ZoneID: "gid://shopify/DeliveryZone/404",
		RateID: "gid://shopify/DeliveryMethodDefinition/100",
	}, domain.RatePatch{Name: &name, Price: &price, Currency: &currency})
	if !errors.Is(err, domain.ErrZoneNotFound) {
		t.Fatalf("err = %v, want ErrZoneNotFound", err)
	}
}

func TestUserErrorMapsToRemoteRejected(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphqlRequest) string {
		if strings.Contains(req.Query, "deliveryProfileUpdate") {
			return `{"deliveryProfileUpdate":{"profile":null,"userErrors":[{"field":["profile"],"message":"price cannot be negative"}]}}`
		}
		return profilesFixture
	})

	err := client.CreateRate(context.Background(), "gid://shopify/DeliveryZone/10", domain.CreateRate{
		Name:     "Bad",
		Price:    decimal.NewFromInt(-1),
		Currency: "EUR",
	})
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("err = %v, want ErrRemoteRejected", err)
	}
}

func TestServerErrorMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{Store: "test.myshopify.com", Token: "shpat_test"}, zap.NewNop())
	client.url = srv.URL

	if _, err := client.ListZones(context.Background()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
