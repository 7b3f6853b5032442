// Package collconv serializes arbitrary collection types as JSON arrays while
// delegating every element to a caller-supplied item converter.
//
// A Factory[T] plugs into a jsonconv.Config. For each Go type the encoder
// visits it classifies the type (array, set, sequence, or not a collection),
// checks that the element type is T, and manufactures a converter with one of
// three strategies:
//   - array: slices and fixed-size arrays.
//   - constructible: a concrete type with an Add method (or a set-shaped map),
//     a registered Constructor, or an interface satisfied by *HashSet[T] or
//     *List[T]. Read builds the collection by repeated insertion.
//   - write-only: anything that can be enumerated but not rebuilt. Write works,
//     Read fails with *UnsupportedError.
//
// Elements are encoded with a derived configuration in which the item
// converter is consulted first, so it wins over any ambient converter for T.
//
//	f := collconv.MustNew[Weekday](collconv.Options{Item: weekdays})
//	cfg := jsonconv.New(jsonconv.WithConverters(f))
//	b, err := cfg.Marshal(map[Weekday]struct{}{Monday: {}})
//
// Manufactured converters are memoized in a Registry keyed by (factory, type).
package collconv
