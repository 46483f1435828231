package shopify

// Pagination limits are kept small to stay inside the platform's query cost
// budget (1000 points per request).

const deliveryProfilesQuery = `
query {
  deliveryProfiles(first: 3) {
    edges {
      node {
        id
        name
        profileLocationGroups {
          locationGroup {
            id
          }
          locationGroupZones(first: 100) {
            edges {
              node {
                zone {
                  id
                  name
                  countries {
                    code {
                      countryCode
                    }
                    name
                  }
                }
                methodDefinitions(first: 20) {
                  edges {
                    node {
                      id
                      name
                      active
                      methodConditions {
                        id
                        conditionCriteria {
                          ... on Weight {
                            unit
                            value
                          }
                        }
                        field
                        operator
                      }
                      rateProvider {
                        ... on DeliveryRateDefinition {
                          id
                          price {
                            amount
                            currencyCode
                          }
                        }
                      }
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const profileStructureQuery = `
query {
  deliveryProfiles(first: 5) {
    edges {
      node {
        id
        profileLocationGroups {
          locationGroup {
            id
          }
          locationGroupZones(first: 50) {
            edges {
              node {
                zone {
                  id
                }
                methodDefinitions(first: 20) {
                  edges {
                    node {
                      id
                      methodConditions {
                        id
                        field
                      }
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const profileUpdateMutation = `
mutation deliveryProfileUpdate($id: ID!, $profile: DeliveryProfileInput!) {
  deliveryProfileUpdate(id: $id, profile: $profile) {
    profile {
      id
      name
    }
    userErrors {
      field
      message
    }
  }
}`
