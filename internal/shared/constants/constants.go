package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXUserToken    = "X-User-Token"

	ContentTypeJSON = "application/json"
	ContentTypePNG  = "image/png"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRole      = "user_role"
	ContextKeyClubID    = "club_id"
	ContextKeyIdentity  = "identity"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers                  = "users"
	TableClubs                  = "clubs"
	TableMachines               = "machines"
	TableTickets                = "tickets"
	TableTicketStatusHistory    = "ticket_status_history"
	TableTicketAttachments      = "ticket_attachments"
	TableRequestNumberSequences = "request_number_sequences"

	// Request number prefix, e.g. SA-20250314-0007
	RequestNumberPrefix = "SA"

	ErrMsgInternalServerError = "Internal server error occurred"
)
