// Package catalog holds the read side of the product catalog that the order
// pipeline prices and reserves against: product sizes with their prices and
// pack units, and toppings.
//
// Stock is kept on the product in its canonical unit (kg, l or pieces). A
// product size describes a pack: ordering N packs of 500 g removes 0.5*N kg
// from the product.
package catalog
