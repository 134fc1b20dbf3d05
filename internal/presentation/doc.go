// Package presentation prepares the combined table for display. BuildLayout
// inserts spacer columns between variables and derives the header spans and
// CSS rules; RenderHTML and RenderPNG turn a layout into a page and an image.
package presentation
