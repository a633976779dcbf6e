// Package filter holds the CPU fragment programs behind every registered
// image filter.
//
// Programs read straight-alpha RGBA8 sources and write a destination of the
// same size. Texture coordinates follow the canvas convention: u grows to
// the right, v grows upward, and (0,0) is the bottom-left corner. Relative
// parameters such as dx and dy are fractions of the image size in that
// space.
package filter
