package scheduler

import (
	"context"
	"runtime"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/models/opencypher/document"
	"github.com/Anon10214/cypherc/translator"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// A Builder compiles documents into query text and parameters.
type Builder interface {
	Build(*document.Document, config.Config) translator.Result
}

// DocumentBuilder builds a document's statement with [translator.Build].
type DocumentBuilder struct{}

// Build the document's statement with the passed naming
func (DocumentBuilder) Build(doc *document.Document, naming config.Config) translator.Result {
	res := translator.Build(doc.Statement, naming)
	logrus.Tracef("Built document %s:\n%s", doc.Name, res.Text)
	return res
}

// BuildHandler is the handler type of [Builder.Build]
type BuildHandler func(*document.Document, config.Config) translator.Result

// BuilderMiddleware holds the middleware wrapped around a [Builder].
//
// Like [dbms.DBMiddleware], the middleware gets passed the next handler on every call.
type BuilderMiddleware struct {
	BuildMiddleware func(BuildHandler) BuildHandler
}

type wrappedBuilder struct {
	builder    Builder
	middleware BuilderMiddleware
}

// WrapBuilder returns a [Builder] calling the passed middleware around every build.
func WrapBuilder(builder Builder, middleware BuilderMiddleware) Builder {
	return &wrappedBuilder{builder: builder, middleware: middleware}
}

func (w *wrappedBuilder) Build(doc *document.Document, naming config.Config) translator.Result {
	handler := BuildHandler(w.builder.Build)
	if w.middleware.BuildMiddleware != nil {
		handler = w.middleware.BuildMiddleware(handler)
	}
	return handler(doc, naming)
}

// BuildAll builds every document with every naming of the configured strategy.
//
// Documents are built concurrently, with at most conf.Concurrency builds
// in flight, or one per CPU if it isn't set. Every build gets its own
// environment, so documents never share labels or parameters.
// The returned builds are in the order of the passed documents and the strategy's namings.
func BuildAll(ctx context.Context, conf Config, docs []*document.Document) ([][]translator.Result, error) {
	builder := conf.Builder
	if builder == nil {
		builder = DocumentBuilder{}
	}
	namings := conf.strategy().Namings(conf.Naming)

	limit := conf.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	builds := make([][]translator.Result, len(docs))
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results := make([]translator.Result, len(namings))
			for j, naming := range namings {
				results[j] = builder.Build(doc, naming)
			}
			builds[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return builds, nil
}
