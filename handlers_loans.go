package main

import (
	"errors"
	"fmt"

	"biblioteca/library"
)

func (s *session) loansMenu() {
	for {
		choice := menu(s.sc, "LOAN MANAGEMENT", []string{
			"Issue a loan", "Approve pending requests", "Return a book",
			"Active loans", "Overdue loans", "Back",
		})
		switch choice {
		case 1:
			s.issueLoan()
		case 2:
			s.approvePending()
		case 3:
			s.returnBook()
		case 4:
			s.showLoanDetails("ACTIVE LOANS", s.mgr.ActiveLoanReport)
		case 5:
			s.showLoanDetails("OVERDUE LOANS", s.mgr.OverdueReport)
		case 6:
			return
		}
	}
}

// loanError turns the manager's sentinel errors into console messages.
func loanError(err error) {
	switch {
	case errors.Is(err, library.ErrLoanLimit):
		failf("Loan limit reached: return or resolve existing loans first")
	case errors.Is(err, library.ErrOverdueLoans):
		failf("There are overdue loans; they must be returned before borrowing again")
	case errors.Is(err, library.ErrDuplicateLoan):
		failf("This user already has a live loan of that book")
	case errors.Is(err, library.ErrNoCopies):
		failf("No copies of that book are available")
	default:
		failf("Loan failed: %v", err)
	}
}

// requestLoan files a pending request for the signed-in user.
func (s *session) requestLoan() {
	title("REQUEST A LOAN")
	s.listAvailableBooksBrief()
	cdj, ok := prompt(s.sc, "CDJ code of the book (or * to cancel): ")
	if !ok || cdj == "*" || cdj == "" {
		return
	}
	book, err := s.mgr.DB().GetBookByCDJ(cdj)
	if err != nil {
		failf("Book '%s' not found", cdj)
		waitEnter(s.sc)
		return
	}
	if !confirm(s.sc, fmt.Sprintf("Request a loan of '%s'?", book.Title)) {
		return
	}

	loan, err := s.mgr.RequestLoan(s.user.ID, cdj)
	if err != nil {
		loanError(err)
		waitEnter(s.sc)
		return
	}
	successf("Request filed; pending staff approval. Due date if approved: %s", fmtDate(loan.DueAt))
	waitEnter(s.sc)
}

func (s *session) listAvailableBooksBrief() {
	lib, err := s.mgr.Snapshot()
	if err != nil {
		failf("Could not load catalog: %v", err)
		return
	}
	available := lib.AvailableBooks()
	if len(available) == 0 {
		warnf("No books available right now")
		return
	}
	rows := make([][]string, 0, len(available))
	for _, b := range available {
		rows = append(rows, []string{b.CDJ, truncate(b.Title, 40), truncate(b.Author, 25)})
	}
	renderTable([]string{"CDJ", "Title", "Author"}, rows)
}

// issueLoan is the staff desk flow: the loan starts active immediately.
func (s *session) issueLoan() {
	title("ISSUE A LOAN")
	user := s.findUser("Borrower login: ")
	if user == nil {
		waitEnter(s.sc)
		return
	}
	cdj, ok := prompt(s.sc, "CDJ code of the book: ")
	if !ok || cdj == "" {
		return
	}

	loan, err := s.mgr.IssueLoan(user.ID, cdj)
	if err != nil {
		loanError(err)
		waitEnter(s.sc)
		return
	}
	successf("Loan issued to %s, due %s", user.Name, fmtDate(loan.DueAt))
	waitEnter(s.sc)
}

func (s *session) approvePending() {
	title("APPROVE PENDING REQUESTS")
	details, err := s.mgr.PendingLoanReport()
	if err != nil {
		failf("Could not load requests: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(details) == 0 {
		warnf("No pending requests")
		waitEnter(s.sc)
		return
	}

	for _, d := range details {
		userName, bookTitle := "-", "-"
		if d.User != nil {
			userName = d.User.Name
		}
		if d.Book != nil {
			bookTitle = d.Book.Title
		}
		fmt.Printf("\nUser: %s | Book: %s | Requested: %s\n", userName, bookTitle, fmtDate(d.Loan.LoanedAt))

		answer, ok := prompt(s.sc, "Approve (a), reject (r), skip (Enter)? ")
		if !ok {
			return
		}
		switch answer {
		case "a":
			if err := s.mgr.ApproveLoan(d.Loan.ID); err != nil {
				loanError(err)
			} else {
				successf("Loan approved")
			}
		case "r":
			if err := s.mgr.RejectLoan(d.Loan.ID); err != nil {
				failf("Could not reject: %v", err)
			} else {
				successf("Request rejected")
			}
		}
	}
	waitEnter(s.sc)
}

func (s *session) returnBook() {
	title("RETURN A BOOK")
	user := s.findUser("Borrower login: ")
	if user == nil {
		waitEnter(s.sc)
		return
	}

	details, err := s.mgr.UserLoanReport(user.ID)
	if err != nil {
		failf("Could not load loans: %v", err)
		waitEnter(s.sc)
		return
	}
	var active []library.LoanDetail
	for _, d := range details {
		if d.Loan.Status == library.LoanActive {
			active = append(active, d)
		}
	}
	if len(active) == 0 {
		warnf("%s has no books out", user.Name)
		waitEnter(s.sc)
		return
	}

	rows := make([][]string, 0, len(active))
	for _, d := range active {
		bookTitle, cdj := "-", "-"
		if d.Book != nil {
			bookTitle, cdj = d.Book.Title, d.Book.CDJ
		}
		rows = append(rows, []string{fmt.Sprint(d.Loan.ID), cdj, truncate(bookTitle, 40), fmtDate(d.Loan.DueAt)})
	}
	renderTable([]string{"Loan", "CDJ", "Title", "Due"}, rows)

	loanID, ok := promptInt64(s.sc, "Loan number to return: ")
	if !ok {
		return
	}
	found := false
	for _, d := range active {
		if d.Loan.ID == loanID {
			found = true
			break
		}
	}
	if !found {
		failf("Pick a loan number from the list")
		waitEnter(s.sc)
		return
	}

	if err := s.mgr.ReturnLoan(loanID); err != nil {
		failf("Could not return book: %v", err)
	} else {
		successf("Book returned")
	}
	waitEnter(s.sc)
}

// myActiveLoans answers from the registry snapshot for the signed-in user.
func (s *session) myActiveLoans() {
	title("MY ACTIVE LOANS")
	lib, err := s.mgr.Snapshot()
	if err != nil {
		failf("Could not load loans: %v", err)
		waitEnter(s.sc)
		return
	}

	books := make(map[int64]*library.Book, len(lib.Books))
	for _, b := range lib.Books {
		books[b.ID] = b
	}

	var rows [][]string
	for _, l := range lib.LoansForUser(s.user.ID) {
		if l.Status != library.LoanActive && l.Status != library.LoanPending {
			continue
		}
		bookTitle, cdj := "-", "-"
		if b := books[l.BookID]; b != nil {
			bookTitle, cdj = b.Title, b.CDJ
		}
		due := fmtDate(l.DueAt)
		if l.IsOverdue() {
			due += " (overdue)"
		}
		rows = append(rows, []string{cdj, truncate(bookTitle, 40), l.Status, due})
	}
	if len(rows) == 0 {
		warnf("You have no active loans")
		waitEnter(s.sc)
		return
	}
	renderTable([]string{"CDJ", "Title", "Status", "Due"}, rows)
	waitEnter(s.sc)
}

func (s *session) myHistory() {
	title("MY LOAN HISTORY")
	details, err := s.mgr.UserLoanReport(s.user.ID)
	if err != nil {
		failf("Could not load history: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(details) == 0 {
		warnf("No loans recorded")
		waitEnter(s.sc)
		return
	}
	headers, rows := loanRows(details)
	renderTable(headers, rows)
	waitEnter(s.sc)
}
