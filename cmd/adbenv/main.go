// Command adbenv starts and inspects Autonomous Database test instances.
//
// Usage:
//
//	adbenv run -f instance.yaml     start an instance, print its connection details, stop it on SIGINT
//	adbenv keyfile                  print the private key path of a credentials profile
//	adbenv identity                 print the process identity used in scoped user names
//	adbenv users --journal FILE     list scoped users that were created but never dropped
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
