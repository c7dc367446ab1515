package permission

// Action is an operation a caller may attempt on a resource.
type Action string

const (
	ActionCreateTicket       Action = "ticket:create"
	ActionListTickets        Action = "ticket:list"
	ActionViewTicket         Action = "ticket:view"
	ActionChangeTicketStatus Action = "ticket:change_status"
	ActionAssignTicket       Action = "ticket:assign"
	ActionCommentTicket      Action = "ticket:comment"
	ActionManageUsers        Action = "user:manage"
	ActionViewReports        Action = "report:view"
	ActionReadClubs          Action = "club:read"
)

func (a Action) String() string {
	return string(a)
}

// ResourceKind groups actions by the object they act on.
type ResourceKind string

const (
	KindTicket ResourceKind = "ticket"
	KindUser   ResourceKind = "user"
	KindReport ResourceKind = "report"
	KindClub   ResourceKind = "club"
)

func (k ResourceKind) String() string {
	return string(k)
}
