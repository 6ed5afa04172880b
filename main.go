/*
A compiler turning declarative query documents into parameterized Cypher queries.

Cypherc builds queries from trees of clauses instead of strings. References within
a tree are resolved to unique names only when the tree gets compiled, and every value
is passed as a parameter. This makes the compiled text deterministic and safe to
assemble from independently written parts.

Compiled queries can be run against all supported cypher implementations, optionally
verifying that the results don't depend on the naming used during compilation.
*/
package main

import (
	_ "embed"

	"github.com/Anon10214/cypherc/cmd"
)

func main() {
	initEmbeds()
	cmd.Execute()
}

// Embed the targets-config.yml content such that the config command can reuse it
//
//go:embed targets-config.yml
var targetConfigTemplate string

func initEmbeds() {
	cmd.TargetConfigTemplate = targetConfigTemplate
}
