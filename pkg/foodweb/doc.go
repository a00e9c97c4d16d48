// Package foodweb turns a creature list into the node/edge graph that
// renderers draw.
//
// [Build] is a pure function: the same creatures always produce the same
// graph, node for node and edge for edge. Identity is by name. Each
// creature contributes one node (the first record with a given name wins)
// and one edge per prey token, pointing from the prey to the creature. A
// prey name with no creature record becomes a gray food node.
//
// Edges are never merged: listing a prey twice draws two arrows, and a
// creature that eats its own kind gets a self-loop.
//
// # Text Contrast
//
// Label colors follow a [Contrast] policy. The default, [ContrastBinary],
// uses black text on the default gray and white text on any custom fill.
// [ContrastLuminance] picks black or white from the fill's perceptual
// lightness instead, which keeps labels legible on light custom colors.
package foodweb
