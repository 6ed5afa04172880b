package dbms

// Handler types of the [DB] methods, wrapped by [DBMiddleware].
type (
	InitHandler               func(DBOptions) error
	ResetHandler              func(DBOptions) error
	RunQueryHandler           func(DBOptions, string, map[string]any) QueryResult
	VerifyConnectivityHandler func(DBOptions) (bool, error)
	GetQueryResultTypeHandler func(QueryResult, *ErrorMessageRegex) QueryResultType
	IsEqualResultHandler      func(QueryResult, QueryResult) bool
)

// DBMiddleware holds a middleware per [DB] method.
//
// A middleware gets passed the next handler every time its method is called
// and returns the handler to call instead. Nil middlewares are skipped.
type DBMiddleware struct {
	InitMiddleware               func(InitHandler) InitHandler
	ResetMiddleware              func(ResetHandler) ResetHandler
	RunQueryMiddleware           func(RunQueryHandler) RunQueryHandler
	VerifyConnectivityMiddleware func(VerifyConnectivityHandler) VerifyConnectivityHandler
	GetQueryResultTypeMiddleware func(GetQueryResultTypeHandler) GetQueryResultTypeHandler
	IsEqualResultMiddleware      func(IsEqualResultHandler) IsEqualResultHandler
}

type wrappedDB struct {
	db         DB
	middleware DBMiddleware
}

// WrapDB returns a [DB] calling the passed middleware around every method of db.
func WrapDB(db DB, middleware DBMiddleware) DB {
	return &wrappedDB{db: db, middleware: middleware}
}

func (w *wrappedDB) Init(opts DBOptions) error {
	handler := InitHandler(w.db.Init)
	if w.middleware.InitMiddleware != nil {
		handler = w.middleware.InitMiddleware(handler)
	}
	return handler(opts)
}

func (w *wrappedDB) Reset(opts DBOptions) error {
	handler := ResetHandler(w.db.Reset)
	if w.middleware.ResetMiddleware != nil {
		handler = w.middleware.ResetMiddleware(handler)
	}
	return handler(opts)
}

func (w *wrappedDB) RunQuery(opts DBOptions, query string, params map[string]any) QueryResult {
	handler := RunQueryHandler(w.db.RunQuery)
	if w.middleware.RunQueryMiddleware != nil {
		handler = w.middleware.RunQueryMiddleware(handler)
	}
	return handler(opts, query, params)
}

func (w *wrappedDB) VerifyConnectivity(opts DBOptions) (bool, error) {
	handler := VerifyConnectivityHandler(w.db.VerifyConnectivity)
	if w.middleware.VerifyConnectivityMiddleware != nil {
		handler = w.middleware.VerifyConnectivityMiddleware(handler)
	}
	return handler(opts)
}

func (w *wrappedDB) GetQueryResultType(res QueryResult, errorMessageRegex *ErrorMessageRegex) QueryResultType {
	handler := GetQueryResultTypeHandler(w.db.GetQueryResultType)
	if w.middleware.GetQueryResultTypeMiddleware != nil {
		handler = w.middleware.GetQueryResultTypeMiddleware(handler)
	}
	return handler(res, errorMessageRegex)
}

func (w *wrappedDB) IsEqualResult(a, b QueryResult) bool {
	handler := IsEqualResultHandler(w.db.IsEqualResult)
	if w.middleware.IsEqualResultMiddleware != nil {
		handler = w.middleware.IsEqualResultMiddleware(handler)
	}
	return handler(a, b)
}
