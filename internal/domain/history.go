package domain

// Action is the kind of circulation event recorded in the history log.
type Action string

const (
	ActionCheckout Action = "checkout"
	ActionCheckin  Action = "checkin"
)

// HistoryEntry is one append-only audit record of a checkout or check-in.
// BookTitle is a snapshot taken at event time, not a live reference, so the
// log stays readable after the book is edited or deleted.
type HistoryEntry struct {
	BookID       string
	BookTitle    string
	Borrower     string
	Action       Action
	CheckoutDate *Date // set on checkout entries
	DueDate      *Date // set on checkout entries
	ReturnDate   *Date // set on checkin entries
}
