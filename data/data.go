// Package data embeds the sample user dataset served when no source file
// is configured.
package data

import _ "embed"

//go:embed users.json
var SampleUsers []byte
