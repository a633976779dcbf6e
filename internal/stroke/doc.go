// Package stroke expands flattened polylines into fill polygons.
//
// A stroke is emitted as a set of convex pieces: one quad per segment, one
// wedge per join and one polygon per cap. Every piece is oriented
// counter-clockwise so that filling the union with the nonzero rule gives
// the stroke outline without cancellation where pieces overlap.
//
// # Line Caps
//
//   - LineCapButt: flat cap ending exactly at the endpoint
//   - LineCapRound: semicircular cap with radius width/2
//   - LineCapSquare: square cap extending width/2 beyond the endpoint
//
// # Line Joins
//
//   - LineJoinMiter: sharp corner, replaced by a bevel past the miter limit
//   - LineJoinRound: circular arc at corners
//   - LineJoinBevel: straight line across the corner
package stroke
