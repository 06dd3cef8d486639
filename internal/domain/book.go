package domain

// Book represents a single title in the catalog together with its current
// circulation state. Borrower and DueDate are only meaningful while Borrowed
// is true; CheckIn clears both.
type Book struct {
	ID       string
	Title    string
	Author   string
	Genre    string
	Year     int
	ISBN     string
	Tags     []string
	Borrowed bool
	Borrower string
	DueDate  *Date
	Summary  string
}

// Overdue reports whether the book is borrowed and its due date has passed
// as of the given date.
func (b Book) Overdue(today Date) bool {
	return b.Borrowed && b.DueDate != nil && b.DueDate.Before(today)
}

// SharedTags returns the tags the book has in common with other,
// in the order they appear on b.
func (b Book) SharedTags(other Book) []string {
	seen := make(map[string]bool, len(other.Tags))
	for _, t := range other.Tags {
		seen[t] = true
	}
	var shared []string
	for _, t := range b.Tags {
		if seen[t] {
			shared = append(shared, t)
			delete(seen, t)
		}
	}
	return shared
}
