// Package config loads showcase's settings.
//
// # Resolution order
//
//  1. Built-in defaults
//  2. ~/.config/showcase/config.toml, or the path given with --config
//  3. A .env file in the working directory (see LoadDotEnv)
//  4. SHOWCASE_SOURCE, SHOWCASE_CURRENCY and SHOWCASE_LOG_FILE
//  5. Command-line flags, applied by the caller
//
// A missing config file is not an error.
//
// # TOML format
//
//	source = "https://shop.example/products.json"
//	currency = "PKR"
//	placeholder_image = "~/.config/showcase/no-image.png"
//	image_timeout = "10s"
//	confirm_duration = "2s"
//	log_file = "~/.local/state/showcase/showcase.log"
//
// Every key is optional. Paths get tilde expansion; a source that is a URL is
// used verbatim.
package config
