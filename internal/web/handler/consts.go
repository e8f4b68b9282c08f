package handler

const (
	// APIPath is the prefix of all gated routes.
	APIPath = "/api"

	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if router or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "router, cfg or db is nil"

	// MsgDatabaseError is the error text of store failures.
	MsgDatabaseError = "Database error"
)
