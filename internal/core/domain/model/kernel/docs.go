// Package kernel provides the shared value objects of the fulfillment domain:
//   - UUID: identifier used by every aggregate and reference
//   - Location: a WGS-84 point (latitude/longitude) with geodesic distance
//
// Both are immutable and safe for concurrent use. Their zero values are
// invalid and fail Validate.
package kernel
