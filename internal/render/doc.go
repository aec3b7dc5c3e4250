// Package render rasterizes a terminal screen snapshot into a PNG image.
//
// The renderer draws fixed-size character cells on a dark background with a
// light default foreground, looks up the 8 basic ANSI foreground colors, and
// outlines the cursor cell. A monospace TrueType font is loaded from known
// system paths when available, falling back to a built-in bitmap face.
//
// Images are written atomically: a failed render never corrupts a
// previously written artifact at the same path.
package render
