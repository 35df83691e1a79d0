// pbxdiag - Call-server log diagnostics
//
// pbxdiag reconstructs call flows and explains SIP registration failures
// from a telephony call-server log.
package main

import (
	"os"

	"github.com/ccollicutt/pbxdiag/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
