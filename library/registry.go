package library

import "strings"

// Library is an in-memory index over the four entity collections, filled
// by Database.LoadLibrary at session start. It only answers queries; all
// mutation goes through the Database, after which callers reload.
//
// Every list-returning helper allocates a fresh slice, so callers can
// never corrupt the registry through a returned value.
type Library struct {
	Users      []*User
	Categories []*Category
	Books      []*Book
	Loans      []*Loan
}

// NewLibrary returns an empty registry.
func NewLibrary() *Library {
	return &Library{}
}

// FindUserByName returns the first user whose display name matches,
// ignoring case, or nil when no user matches.
func (l *Library) FindUserByName(name string) *User {
	for _, u := range l.Users {
		if strings.EqualFold(u.Name, name) {
			return u
		}
	}
	return nil
}

// FindBookByCDJ returns the first book with the given classification
// code, or nil.
func (l *Library) FindBookByCDJ(code string) *Book {
	for _, b := range l.Books {
		if b.CDJ == code {
			return b
		}
	}
	return nil
}

// LoansForUser returns every loan referencing the given user, in
// collection order.
func (l *Library) LoansForUser(userID int64) []*Loan {
	loans := make([]*Loan, 0)
	for _, p := range l.Loans {
		if p.UserID == userID {
			loans = append(loans, p)
		}
	}
	return loans
}

// AvailableBooks returns every book currently marked available, in
// collection order.
func (l *Library) AvailableBooks() []*Book {
	books := make([]*Book, 0)
	for _, b := range l.Books {
		if b.Status == BookAvailable {
			books = append(books, b)
		}
	}
	return books
}

// OverdueLoans returns every loan for which IsOverdue holds.
func (l *Library) OverdueLoans() []*Loan {
	loans := make([]*Loan, 0)
	for _, p := range l.Loans {
		if p.IsOverdue() {
			loans = append(loans, p)
		}
	}
	return loans
}
