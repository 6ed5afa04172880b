package none

import (
	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/opencypher/config"
)

type Strategy struct{}

func (s *Strategy) Namings(naming config.Config) []config.Config {
	return []config.Config{naming}
}

func (s *Strategy) ResetBetweenBuilds() bool {
	return false
}

func (s *Strategy) GetQueryResultType(db dbms.DB, results []dbms.QueryResult) dbms.QueryResultType {
	if len(results) == 0 {
		return dbms.None
	}
	return results[0].Type
}
