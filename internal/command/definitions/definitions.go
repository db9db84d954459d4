// Package definitions embeds the default command definitions. Each file is a
// Discord application-command object; folders under commands/ are categories.
package definitions

import "embed"

// Root is the commands root inside FS.
const Root = "commands"

//go:embed commands
var FS embed.FS
