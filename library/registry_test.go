package library

import (
	"testing"
	"time"
)

func testLibrary() *Library {
	lib := NewLibrary()
	lib.Users = []*User{
		{ID: 1, Login: "ana", Name: "Ana García", Active: true},
		{ID: 2, Login: "ana2", Name: "ana garcía", Active: true},
		{ID: 3, Login: "bruno", Name: "Bruno Díaz", Active: true},
	}
	lib.Books = []*Book{
		{ID: 1, Title: "Ficciones", CDJ: "800.03", Status: BookAvailable, Active: true},
		{ID: 2, Title: "Cosmos", CDJ: "500.01", Status: BookBorrowed, Active: true},
		{ID: 3, Title: "Rayuela", CDJ: "800.02", Status: BookAvailable, Active: true},
	}
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)
	lib.Loans = []*Loan{
		{ID: 1, UserID: 1, BookID: 2, Status: LoanActive, DueAt: yesterday},
		{ID: 2, UserID: 1, BookID: 1, Status: LoanReturned, DueAt: yesterday},
		{ID: 3, UserID: 3, BookID: 3, Status: LoanActive, DueAt: tomorrow},
	}
	return lib
}

func TestFindUserByName(t *testing.T) {
	lib := testLibrary()

	// Case-insensitive, and the first match wins.
	u := lib.FindUserByName("ANA GARCÍA")
	if u == nil || u.ID != 1 {
		t.Fatalf("want user 1, got %+v", u)
	}
	if lib.FindUserByName("nadie") != nil {
		t.Fatalf("unknown name should return nil")
	}
}

func TestFindBookByCDJ(t *testing.T) {
	lib := testLibrary()

	b := lib.FindBookByCDJ("500.01")
	if b == nil || b.Title != "Cosmos" {
		t.Fatalf("want Cosmos, got %+v", b)
	}
	if lib.FindBookByCDJ("999.99") != nil {
		t.Fatalf("unknown code should return nil")
	}
}

func TestLoansForUser(t *testing.T) {
	lib := testLibrary()

	loans := lib.LoansForUser(1)
	if len(loans) != 2 || loans[0].ID != 1 || loans[1].ID != 2 {
		t.Fatalf("want loans [1 2], got %+v", loans)
	}

	none := lib.LoansForUser(7)
	if none == nil || len(none) != 0 {
		t.Fatalf("unknown user should yield an empty, non-nil slice")
	}
}

func TestAvailableBooks(t *testing.T) {
	lib := testLibrary()

	books := lib.AvailableBooks()
	if len(books) != 2 || books[0].ID != 1 || books[1].ID != 3 {
		t.Fatalf("want books [1 3] in collection order, got %+v", books)
	}
}

func TestOverdueLoans(t *testing.T) {
	lib := testLibrary()

	overdue := lib.OverdueLoans()
	if len(overdue) != 1 || overdue[0].ID != 1 {
		t.Fatalf("want only loan 1 overdue, got %+v", overdue)
	}
}

func TestQueryResultsAreFreshSlices(t *testing.T) {
	lib := testLibrary()

	books := lib.AvailableBooks()
	books[0] = nil
	again := lib.AvailableBooks()
	if again[0] == nil {
		t.Fatalf("mutating a returned slice must not reach the registry")
	}

	loans := lib.LoansForUser(1)
	loans = append(loans[:0], loans[1:]...)
	_ = loans
	if len(lib.LoansForUser(1)) != 2 {
		t.Fatalf("registry state changed through a returned slice")
	}
}
