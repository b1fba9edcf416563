// Package imageload loads and draws the image of the product on screen.
//
// # Sequencing
//
// Every navigation starts a new load generation:
//
//	ticket := seq.Begin(product.ID, product.Image)   // Idle/any -> Loading
//	result := seq.Load(ctx, ticket)                  // blocking, off the event loop
//	if seq.Resolve(result) { redraw() }              // Loading -> Loaded | Failed
//
// Resolve only accepts the result of the latest Begin. A slow response for a
// product the user already moved away from is dropped without touching the
// frame, so the display always belongs to the current product. Begin also
// cancels the context handed to the previous Load, but correctness rests on
// the generation check, not on the cancellation.
//
// On failure the frame switches to the placeholder graphic; the caller is
// expected to surface a warning.
//
// # Fetching
//
// Loader resolves references relative to the catalog document, downloads
// HTTP(S) images or reads local files, decodes PNG, JPEG, GIF and WebP, and
// shrinks large images. Parallel requests for one location share a single
// download. Only successes are cached.
//
// # Rendering
//
// Render turns an image into rows of half-block cells with truecolor
// foreground and background, two pixels per cell.
package imageload
