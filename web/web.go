// Package web embeds the static browser assets.
package web

import "embed"

//go:embed static
var StaticFS embed.FS
