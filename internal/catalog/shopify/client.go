// Package shopify implements the delivery-profile catalog adapter against
// the commerce platform's GraphQL admin API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/velobay/freightdesk/internal/catalog/domain"
	"github.com/velobay/freightdesk/internal/observability/tracing"
)

const defaultAPIVersion = "2024-07"

// Config carries the store credentials for the admin API.
type Config struct {
	Store      string
	Token      string
	APIVersion string
}

// Client talks to the delivery-profile surface of the admin API.
type Client struct {
	cfg  Config
	url  string
	http *http.Client
	log  *zap.Logger
}

// NewClient builds a catalog client. The underlying HTTP client is wrapped
// with trace propagation.
func NewClient(cfg Config, log *zap.Logger) *Client {
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}
	return &Client{
		cfg:  cfg,
		url:  fmt.Sprintf("https://%s/admin/api/%s/graphql.json", strings.TrimSpace(cfg.Store), version),
		http: tracing.WrapHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		log:  log.Named("catalog.shopify"),
	}
}

var _ domain.Adapter = (*Client)(nil)

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	if strings.TrimSpace(c.cfg.Store) == "" || strings.TrimSpace(c.cfg.Token) == "" {
		return domain.ErrNotConfigured
	}

	payload := map[string]any{"query": query}
	if variables != nil {
		payload["variables"] = variables
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", domain.ErrUnavailable, resp.StatusCode)
	}

	var envelope graphqlEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrRemoteRejected, envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
		}
	}
	return nil
}

type profilesPayload struct {
	DeliveryProfiles struct {
		Edges []struct {
			Node struct {
				ID                    string `json:"id"`
				Name                  string `json:"name"`
				ProfileLocationGroups []struct {
					LocationGroup struct {
						ID string `json:"id"`
					} `json:"locationGroup"`
					LocationGroupZones struct {
						Edges []struct {
							Node struct {
								Zone struct {
									ID        string `json:"id"`
									Name      string `json:"name"`
									Countries []struct {
										Code struct {
											CountryCode string `json:"countryCode"`
										} `json:"code"`
										Name string `json:"name"`
									} `json:"countries"`
								} `json:"zone"`
								MethodDefinitions struct {
									Edges []struct {
										Node methodNode `json:"node"`
									} `json:"edges"`
								} `json:"methodDefinitions"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"locationGroupZones"`
				} `json:"profileLocationGroups"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"deliveryProfiles"`
}

type methodNode struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Active           bool   `json:"active"`
	MethodConditions []struct {
		ID                string `json:"id"`
		Field             string `json:"field"`
		Operator          string `json:"operator"`
		ConditionCriteria struct {
			Unit  string   `json:"unit"`
			Value *float64 `json:"value"`
		} `json:"conditionCriteria"`
	} `json:"methodConditions"`
	RateProvider struct {
		ID    string `json:"id"`
		Price *struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"price"`
	} `json:"rateProvider"`
}

// ListZones fetches every zone reachable through the store's delivery
// profiles, with active methods flattened into rates and TOTAL_WEIGHT
// conditions folded into min/max weight bounds.
func (c *Client) ListZones(ctx context.Context) ([]domain.Zone, error) {
	var payload profilesPayload
	if err := c.do(ctx, deliveryProfilesQuery, nil, &payload); err != nil {
		return nil, err
	}

	var zones []domain.Zone
	for _, profileEdge := range payload.DeliveryProfiles.Edges {
		for _, group := range profileEdge.Node.ProfileLocationGroups {
			for _, zoneEdge := range group.LocationGroupZones.Edges {
				node := zoneEdge.Node
				rates := make([]domain.Rate, 0, len(node.MethodDefinitions.Edges))
				for _, methodEdge := range node.MethodDefinitions.Edges {
					if !methodEdge.Node.Active {
						continue
					}
					rates = append(rates, rateFromMethod(methodEdge.Node, node.Zone.Name))
				}

				codes := make([]string, 0, len(node.Zone.Countries))
				names := make([]string, 0, len(node.Zone.Countries))
				for _, country := range node.Zone.Countries {
					codes = append(codes, country.Code.CountryCode)
					names = append(names, country.Name)
				}

				// Single-country zones read better under the country name.
				displayName := node.Zone.Name
				if len(names) == 1 {
					displayName = names[0]
				}

				zones = append(zones, domain.Zone{
					ID:           node.Zone.ID,
					Name:         displayName,
					Countries:    codes,
					CountryNames: names,
					Rates:        rates,
				})
			}
		}
	}

	c.log.Debug("fetched delivery profile zones", zap.Int("zones", len(zones)))
	return zones, nil
}

func rateFromMethod(method methodNode, zoneName string) domain.Rate {
	rate := domain.Rate{
		ID:          method.ID,
		Name:        method.Name,
		Price:       decimal.Zero,
		Currency:    "USD",
		Description: "Shipping method for " + zoneName,
	}
	if method.RateProvider.Price != nil {
		if amount, err := decimal.NewFromString(method.RateProvider.Price.Amount); err == nil {
			rate.Price = amount
		}
		if method.RateProvider.Price.CurrencyCode != "" {
			rate.Currency = method.RateProvider.Price.CurrencyCode
		}
	}
	for _, condition := range method.MethodConditions {
		if condition.Field != "TOTAL_WEIGHT" {
			continue
		}
		rate.HasWeightConditions = true
		if condition.ConditionCriteria.Value == nil {
			continue
		}
		value := *condition.ConditionCriteria.Value
		switch condition.Operator {
		case "GREATER_THAN_OR_EQUAL_TO":
			rate.MinWeight = &value
		case "LESS_THAN_OR_EQUAL_TO":
			rate.MaxWeight = &value
		}
	}
	return rate
}

type zoneLocation struct {
	profileID       string
	locationGroupID string
	// hasConditions is keyed by method id for the zone's methods.
	hasConditions map[string]bool
}

func (c *Client) findZoneLocation(ctx context.Context, zoneID string) (zoneLocation, error) {
	var payload profilesPayload
	if err := c.do(ctx, profileStructureQuery, nil, &payload); err != nil {
		return zoneLocation{}, err
	}

	for _, profileEdge := range payload.DeliveryProfiles.Edges {
		for _, group := range profileEdge.Node.ProfileLocationGroups {
			for _, zoneEdge := range group.LocationGroupZones.Edges {
				if zoneEdge.Node.Zone.ID != zoneID {
					continue
				}
				loc := zoneLocation{
					profileID:       profileEdge.Node.ID,
					locationGroupID: group.LocationGroup.ID,
					hasConditions:   make(map[string]bool),
				}
				for _, methodEdge := range zoneEdge.Node.MethodDefinitions.Edges {
					loc.hasConditions[methodEdge.Node.ID] = len(methodEdge.Node.MethodConditions) > 0
				}
				return loc, nil
			}
		}
	}
	return zoneLocation{}, fmt.Errorf("%w: %s", domain.ErrZoneNotFound, zoneID)
}

func weightConditions(minWeight, maxWeight *float64) []map[string]any {
	var conditions []map[string]any
	if minWeight != nil {
		conditions = append(conditions, map[string]any{
			"criteria": map[string]any{"unit": "KILOGRAMS", "value": *minWeight},
			"operator": "GREATER_THAN_OR_EQUAL_TO",
		})
	}
	if maxWeight != nil {
		conditions = append(conditions, map[string]any{
			"criteria": map[string]any{"unit": "KILOGRAMS", "value": *maxWeight},
			"operator": "LESS_THAN_OR_EQUAL_TO",
		})
	}
	return conditions
}

type mutationPayload struct {
	DeliveryProfileUpdate struct {
		Profile struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"profile"`
		UserErrors []struct {
			Field   []string `json:"field"`
			Message string   `json:"message"`
		} `json:"userErrors"`
	} `json:"deliveryProfileUpdate"`
}

func (c *Client) mutateProfile(ctx context.Context, variables map[string]any) error {
	var payload mutationPayload
	if err := c.do(ctx, profileUpdateMutation, variables, &payload); err != nil {
		return err
	}
	if errs := payload.DeliveryProfileUpdate.UserErrors; len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrRemoteRejected, errs[0].Message)
	}
	return nil
}

// UpdateRate pushes name/price changes for an existing rate. The remote
// replaces the whole method definition, so the patch must carry name, price
// and currency. When the patch sets a weight bound and the method already
// has weight conditions, the method is deleted and recreated in a single
// mutation: the remote does not allow mutating an attached condition.
func (c *Client) UpdateRate(ctx context.Context, key domain.RateKey, patch domain.RatePatch) error {
	if patch.Name == nil || patch.Price == nil || patch.Currency == nil {
		return fmt.Errorf("%w: update requires name, price and currency", domain.ErrRemoteRejected)
	}

	loc, err := c.findZoneLocation(ctx, key.ZoneID)
	if err != nil {
		return err
	}
	if _, ok := loc.hasConditions[key.RateID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrRateNotFound, key.String())
	}

	var minWeight, maxWeight *float64
	if patch.MinWeight.Set {
		minWeight = patch.MinWeight.Value
	}
	if patch.MaxWeight.Set {
		maxWeight = patch.MaxWeight.Value
	}
	hasNewWeights := minWeight != nil || maxWeight != nil

	description := ""
	if patch.Description != nil {
		description = *patch.Description
	}

	if hasNewWeights && loc.hasConditions[key.RateID] {
		c.log.Info("recreating method to replace weight conditions",
			zap.String("zone_id", key.ZoneID), zap.String("rate_id", key.RateID))
		return c.mutateProfile(ctx, map[string]any{
			"id": loc.profileID,
			"profile": map[string]any{
				"methodDefinitionsToDelete": []string{key.RateID},
				"locationGroupsToUpdate": []map[string]any{{
					"id": loc.locationGroupID,
					"zonesToUpdate": []map[string]any{{
						"id": key.ZoneID,
						"methodDefinitionsToCreate": []map[string]any{{
							"name":        *patch.Name,
							"description": description,
							"active":      true,
							"rateDefinition": map[string]any{
								"price": map[string]any{
									"amount":       patch.Price.String(),
									"currencyCode": *patch.Currency,
								},
							},
							"weightConditionsToCreate": weightConditions(minWeight, maxWeight),
						}},
					}},
				}},
			},
		})
	}

	update := map[string]any{
		"id":          key.RateID,
		"name":        *patch.Name,
		"description": description,
		"rateDefinition": map[string]any{
			"price": map[string]any{
				"amount":       patch.Price.String(),
				"currencyCode": *patch.Currency,
			},
		},
	}
	if hasNewWeights {
		if conditions := weightConditions(minWeight, maxWeight); len(conditions) > 0 {
			update["weightConditionsToCreate"] = conditions
		}
	}

	return c.mutateProfile(ctx, map[string]any{
		"id": loc.profileID,
		"profile": map[string]any{
			"locationGroupsToUpdate": []map[string]any{{
				"id": loc.locationGroupID,
				"zonesToUpdate": []map[string]any{{
					"id":                        key.ZoneID,
					"methodDefinitionsToUpdate": []map[string]any{update},
				}},
			}},
		},
	})
}

// CreateRate adds a new method definition to the zone.
func (c *Client) CreateRate(ctx context.Context, zoneID string, rate domain.CreateRate) error {
	loc, err := c.findZoneLocation(ctx, zoneID)
	if err != nil {
		return err
	}

	create := map[string]any{
		"name":        rate.Name,
		"description": rate.Description,
		"active":      true,
		"rateDefinition": map[string]any{
			"price": map[string]any{
				"amount":       rate.Price.String(),
				"currencyCode": rate.Currency,
			},
		},
	}
	if conditions := weightConditions(rate.MinWeight, rate.MaxWeight); len(conditions) > 0 {
		create["weightConditionsToCreate"] = conditions
	}

	return c.mutateProfile(ctx, map[string]any{
		"id": loc.profileID,
		"profile": map[string]any{
			"locationGroupsToUpdate": []map[string]any{{
				"id": loc.locationGroupID,
				"zonesToUpdate": []map[string]any{{
					"id":                        zoneID,
					"methodDefinitionsToCreate": []map[string]any{create},
				}},
			}},
		},
	})
}

// DeleteRate removes a method definition. Method deletion happens at the
// profile level, not inside the zone update.
func (c *Client) DeleteRate(ctx context.Context, key domain.RateKey) error {
	loc, err := c.findZoneLocation(ctx, key.ZoneID)
	if err != nil {
		return err
	}
	return c.mutateProfile(ctx, map[string]any{
		"id": loc.profileID,
		"profile": map[string]any{
			"methodDefinitionsToDelete": []string{key.RateID},
		},
	})
}
