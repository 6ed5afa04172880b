package clauses_test

import (
	"testing"

	"github.com/Anon10214/cypherc/models/opencypher/clauses"
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// movieBranches returns three branches each matching its own movie node and projecting it under the shared alias.
func movieBranches() []translator.Clause {
	alias := translator.NewVariable()
	var branches []translator.Clause
	for range 3 {
		movie := translator.NewNode()
		branches = append(branches, clauses.NewMatch(clauses.NewPattern(clauses.Node(movie).Labels("Movie"))).
			Return(clauses.As(movie, alias)))
	}
	return branches
}

func TestUnion_Alignment(t *testing.T) {
	union, err := clauses.NewUnion(movieBranches()...)
	require.NoError(t, err)

	res := translator.Build(union, config.Default())

	assert.Equal(t, `MATCH (this0:Movie)
RETURN this0 AS var1
UNION
MATCH (this2:Movie)
RETURN this2 AS var1
UNION
MATCH (this3:Movie)
RETURN this3 AS var1`, res.Text)
	assert.Empty(t, res.Params)
}

func TestUnion_All(t *testing.T) {
	union, err := clauses.NewUnion(movieBranches()...)
	require.NoError(t, err)

	res := translator.Build(union.All(), config.Default())

	assert.Equal(t, `MATCH (this0:Movie)
RETURN this0 AS var1
UNION ALL
MATCH (this2:Movie)
RETURN this2 AS var1
UNION ALL
MATCH (this3:Movie)
RETURN this3 AS var1`, res.Text)

	assert.NotContains(t, translator.Build(union.Distinct(), config.Default()).Text, "UNION ALL")
}

func TestUnion_TooFewBranches(t *testing.T) {
	for _, branches := range [][]translator.Clause{
		nil,
		movieBranches()[:1],
	} {
		union, err := clauses.NewUnion(branches...)
		assert.ErrorIs(t, err, clauses.ErrTooFewBranches)
		assert.Nil(t, union)
	}
}

func TestUnion_ParamsContinueAcrossBranches(t *testing.T) {
	first := clauses.NewMatch(clauses.NewPattern(clauses.Node(translator.NewNode()).Property("title", "A"))).Return()
	second := clauses.NewMatch(clauses.NewPattern(clauses.Node(translator.NewNode()).Property("title", "A"))).Return()

	union, err := clauses.NewUnion(first, second)
	require.NoError(t, err)

	res := translator.Build(union, config.Default())
	assert.Equal(t, `MATCH (this0 {title: $param1})
RETURN *
UNION
MATCH (this2 {title: $param3})
RETURN *`, res.Text)
	assert.Equal(t, map[string]any{"param1": "A", "param3": "A"}, res.Params)
}
