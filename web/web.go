// Package web embeds the static browser client.
package web

import "embed"

//go:embed index.html app.js style.css
var FS embed.FS
