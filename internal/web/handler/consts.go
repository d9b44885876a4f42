package handler

const (
	// APIPath is the prefix of every JSON endpoint.
	APIPath = "/api"

	// RootPath is the root path of a route group.
	RootPath = "/"

	// IDPath addresses one entity of a route group.
	IDPath = "/:id"

	// ParamID is the route parameter of IDPath.
	ParamID = "id"

	// ErrNilARCFatalLogMsg is used if the router, cfg or services pointer is nil.
	ErrNilARCFatalLogMsg = "router, cfg or services is nil"
)

// Pagination query parameters.
const (
	QueryPage = "page"
	QuerySize = "size"
	QuerySort = "sort"

	DefaultPageSize = 20
	MaxPageSize     = 100
)
