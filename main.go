// gorsa by David Vogels
//
// This is the main package that initializes the command line interface.
package main

import "github.com/wokdav/gorsa/cli"

func main() {
	cli.Execute()
}
