package prometheus

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/models/opencypher/document"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/Anon10214/cypherc/translator"
	"github.com/sirupsen/logrus"
)

func getBuilderHooks(exporter *cypherExporter) scheduler.BuilderMiddleware {
	return scheduler.BuilderMiddleware{
		BuildMiddleware: exporter.handleBuild,
	}
}

// handleBuild is the Build handler for cypherExporter.
// It counts builds and measures their latency and parameter count.
func (e *cypherExporter) handleBuild(next scheduler.BuildHandler) scheduler.BuildHandler {
	return func(doc *document.Document, naming config.Config) translator.Result {
		startTime := time.Now()

		res := next(doc, naming)

		e.buildLatencies.Observe(time.Since(startTime).Seconds())
		e.buildCount.Inc()
		e.paramsPerBuild.Observe(float64(len(res.Params)))
		return res
	}
}

func getFullBuilderHooks(exporter *fullCypherExporter) scheduler.BuilderMiddleware {
	return scheduler.BuilderMiddleware{
		BuildMiddleware: exporter.handleBuild,
	}
}

// handleBuild is the Build handler for fullCypherExporter.
// The built query gets analysed in the background.
func (e *fullCypherExporter) handleBuild(next scheduler.BuildHandler) scheduler.BuildHandler {
	return func(doc *document.Document, naming config.Config) translator.Result {
		res := next(doc, naming)

		e.querySize.Add(float64(len(res.Text)))

		e.analyses.Add(1)
		go func(text string) {
			defer e.analyses.Done()
			if err := e.analysisSemaphore.Acquire(context.Background(), 1); err != nil {
				logrus.Panicf("Failed to acquire analysis semaphore")
			}
			defer e.analysisSemaphore.Release(1)

			e.countKeywords(text)
		}(res.Text)

		return res
	}
}

// countKeywords counts the keywords appearing as whole words in the query text.
func (e *fullCypherExporter) countKeywords(text string) {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	for _, word := range words {
		if counter, ok := e.keywordCount[word]; ok {
			counter.Inc()
			e.totalKeywordCount.Inc()
		}
	}
}
