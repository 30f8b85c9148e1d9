// Package rain simulates falling character streams and paints them into a render.Screen.
//
// A Drop is one stream: a head row that advances by a fall distance each tick,
// a trail length, and a single glyph. Drops never die; when a trail leaves the
// bottom of the screen the drop either pauses or respawns above the top.
// The Engine owns every drop for the current width and density and assigns
// drop i to column i modulo width.
package rain
