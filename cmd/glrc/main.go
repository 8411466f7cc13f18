/*
glrc is the command-line front end for this module's grammar/parser
core: compiling a grammar into an automaton, visualizing it, tracing a
GLR run's Graph-Structured Stack, and parsing input against it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
