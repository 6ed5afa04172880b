package clauses

import (
	"errors"
	"fmt"

	"github.com/Anon10214/cypherc/translator"
	"github.com/Anon10214/cypherc/translator/helperclauses"
)

// ErrTooFewBranches is returned when creating a union of fewer than two branches.
var ErrTooFewBranches = errors.New("a union needs at least two branches")

// A Union combines the rows of its branches, `... UNION ...`
//
// All branches get compiled against the same environment, in the order they were passed.
// A reference shared by the branches therefore resolves to the same label in each of them,
// while references created per branch stay distinct.
type Union struct {
	branches []translator.Clause
	all      bool
}

// NewUnion returns a union of the passed branches.
func NewUnion(branches ...translator.Clause) (*Union, error) {
	if len(branches) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewBranches, len(branches))
	}
	return &Union{branches: branches}, nil
}

// All keeps duplicate rows, joining the branches with UNION ALL
func (u *Union) All() *Union {
	u.all = true
	return u
}

// Distinct removes duplicate rows, joining the branches with UNION. This is the default.
func (u *Union) Distinct() *Union {
	u.all = false
	return u
}

// Subclauses of Union
func (u *Union) Subclauses() []translator.Clause {
	separator := "\nUNION\n"
	if u.all {
		separator = "\nUNION ALL\n"
	}
	return []translator.Clause{helperclauses.CreateJoiner(separator, u.branches...)}
}
