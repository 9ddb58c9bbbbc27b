// Package layout maps parsed question blocks onto slide geometry.
//
// An [Engine] walks the blocks once, moving through the states Title,
// Content and Done, and returns a [Deck] of immutable [SlideSpec] values
// ready for a renderer:
//
//	eng := layout.New(v, logger)
//	deck, err := eng.Layout(blocks, imap)
//
// # Geometry
//
// All positions are in EMUs (914400 per inch) from the slide's top-left
// corner. The left 40% of every slide is reserved for decoration; text and
// diagrams are placed in the content column to its right. Decoration (border
// bars, logo, watermark) is appended after a slide's content.
//
// # Passages
//
// Long passage bodies are split on sentence boundaries into chunks with a
// rune budget. The first chunk has a smaller budget than the rest because it
// shares its slide with the title. Every chunk but the last carries a
// "Continued" footer.
package layout
