package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner com informações de versão.
func displayWelcomeBanner(w io.Writer, versionStr string) {
	banner := `
   ___                         _         ___ _ _ _ _
  / __| ___ _ __  __ _ _ _ __ _| |_ ___  | _ |_) | (_)_ _  __ _
  \__ \/ -_) '_ \/ _' | '_/ _' |  _/ -_) | _ \ | | | | ' \/ _' |
  |___/\___| .__/\__,_|_| \__,_|\__\___| |___/_|_|_|_|_||_\__, |
           |_|                                             |___/
`
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Fprintln(w, red(banner))
	fmt.Fprintln(w, blue(fmt.Sprintf("separate-billing (v%s)", versionStr)))
}
