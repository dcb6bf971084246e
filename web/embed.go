package web

import "embed"

// Templates embeds the report HTML templates rendered into PDFs.
//
//go:embed templates/**/*.html
var Templates embed.FS
