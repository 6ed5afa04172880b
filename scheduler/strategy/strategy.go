/*
Package strategy holds the strategies a run can use to decide which results of a document indicate a failure.
*/
package strategy

import (
	"fmt"
	"strings"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/scheduler/strategy/namingequivalence"
	"github.com/Anon10214/cypherc/scheduler/strategy/none"
	"github.com/sirupsen/logrus"
)

// A RunStrategy dictates how often a document is built and how the results of its builds are judged.
type RunStrategy int

const (
	// None builds every document once and reports the result the driver indicates.
	None RunStrategy = iota
	// NamingEquivalence builds every document with the configured naming and an alternate one,
	// runs both builds on a freshly reset database and compares their results.
	//
	// Labels and parameter keys are internal to a query, so for example
	//	MATCH (this0:Movie) WHERE this0.title = $param1 RETURN this0
	// must return the same rows as
	//	MATCH (xthis:Movie) WHERE xthis.title = $xparam1 RETURN xthis
	NamingEquivalence
)

// ToStrategy returns the concrete [Strategy] associated with a [RunStrategy].
func (s RunStrategy) ToStrategy() Strategy {
	switch s {
	case None:
		return &none.Strategy{}
	case NamingEquivalence:
		return &namingequivalence.Strategy{}
	}
	logrus.Panicf("Invalid run strategy encountered: %d", s)
	return nil
}

// ToString converts a run strategy to its equivalent, human-readable string representation
func (s RunStrategy) ToString() string {
	switch s {
	case None:
		return "NONE"
	case NamingEquivalence:
		return "NAMING EQUIVALENCE"
	}
	return "INVALID RUN STRATEGY"
}

// ParseRunStrategy returns the run strategy with the passed name.
// Names are matched case-insensitively, with dashes standing in for spaces.
func ParseRunStrategy(name string) (RunStrategy, error) {
	normalized := strings.ReplaceAll(strings.ToUpper(name), "-", " ")
	for s := None; s <= NamingEquivalence; s++ {
		if s.ToString() == normalized {
			return s, nil
		}
	}
	return None, fmt.Errorf("unknown run strategy %q", name)
}

// The Strategy interface represents a run strategy.
//
// Available strategies can be viewed at [RunStrategy].
type Strategy interface {
	// Namings returns the naming configs a document gets built with, one build per naming.
	// Gets passed the configured naming.
	Namings(config.Config) []config.Config
	// ResetBetweenBuilds returns true if the database has to be reset before every build but the first gets run
	ResetBetweenBuilds() bool
	// GetQueryResultType returns the type the results of all builds of a document indicate.
	// The results are in the order of the namings and already carry the type the driver assigned to them.
	GetQueryResultType(dbms.DB, []dbms.QueryResult) dbms.QueryResultType
}
