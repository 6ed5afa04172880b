/*
Package models holds the OpenCypher model and all targets queries can be run against.

The OpenCypher model provides the clauses query trees are assembled from, compiled by
the [translator]. Each target has a driver struct implementing [dbms.DB].
*/
package models

/*
The code below serves no functionality other than allowing the docstring of this package
to correctly link to translator and dbms.DB.
*/

import (
	"fmt"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/translator"
)

func _() {
	fmt.Print(dbms.Valid, translator.EscapeTemplate(""))
}
