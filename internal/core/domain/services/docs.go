// Package services provides domain services that span several aggregates.
//
// FulfillmentRouter selects the restaurant for an order: the nearest open one
// for delivery, or the chosen one for pickup, and looks up the delivery fee in
// the distance tariff table. Distances come from a DistanceProvider, which
// defaults to the WGS-84 geodesic.
package services
