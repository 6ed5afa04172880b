package namingequivalence

import (
	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/sirupsen/logrus"
)

// The prefix put in front of every prefix of the configured naming to get the alternate naming
const alternatePrefix = "x"

type Strategy struct{}

// Namings returns the configured naming and its alternate
func (s *Strategy) Namings(naming config.Config) []config.Config {
	return []config.Config{naming, Alternate(naming)}
}

// Alternate returns a naming that differs from the passed one in every prefix and in rendering the first index.
func Alternate(naming config.Config) config.Config {
	alternate := naming.WithDefaults()
	alternate.NodePrefix = alternatePrefix + alternate.NodePrefix
	alternate.RelationshipPrefix = alternatePrefix + alternate.RelationshipPrefix
	alternate.VariablePrefix = alternatePrefix + alternate.VariablePrefix
	alternate.PathPrefix = alternatePrefix + alternate.PathPrefix
	alternate.ParamPrefix = alternatePrefix + alternate.ParamPrefix
	alternate.UnsuffixedFirst = !naming.UnsuffixedFirst
	return alternate
}

func (s *Strategy) ResetBetweenBuilds() bool {
	return true
}

// GetQueryResultType returns [dbms.Mismatch] if the builds' results differ in type or content.
// If all builds agree, the shared type is returned.
func (s *Strategy) GetQueryResultType(db dbms.DB, results []dbms.QueryResult) dbms.QueryResultType {
	if len(results) == 0 {
		return dbms.None
	}

	original := results[0]
	for i, res := range results[1:] {
		if res.Type != original.Type {
			logrus.Warnf("Build #%d produced a %s result, the original build a %s result", i+2, res.Type.ToString(), original.Type.ToString())
			return dbms.Mismatch
		}
	}

	// Errors are compared by type only, their messages may contain the renamed identifiers
	if original.Type != dbms.Valid {
		return original.Type
	}

	for i, res := range results[1:] {
		if !db.IsEqualResult(original, res) {
			logrus.Warnf("Build #%d produced non-matching query results after renaming", i+2)
			return dbms.Mismatch
		}
	}
	return dbms.Valid
}
