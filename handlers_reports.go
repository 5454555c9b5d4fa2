package main

import (
	"strconv"
	"time"

	"biblioteca/library"
)

func (s *session) reportsMenu() {
	for {
		choice := menu(s.sc, "REPORTS", []string{
			"Overdue loans", "Active loans", "Available books", "Most borrowed books",
			"Top borrowers", "Loans by user", "Loan history", "History by author",
			"History by CDJ", "History between dates", "Back",
		})
		switch choice {
		case 1:
			s.showLoanDetails("OVERDUE LOANS", s.mgr.OverdueReport)
		case 2:
			s.showLoanDetails("ACTIVE LOANS", s.mgr.ActiveLoanReport)
		case 3:
			s.availableBooksReport()
		case 4:
			s.mostBorrowedReport()
		case 5:
			s.topBorrowersReport()
		case 6:
			s.loansByUserReport()
		case 7:
			s.historyReport(library.HistoryFilter{}, "historial_prestamos")
		case 8:
			if author, ok := prompt(s.sc, "Author: "); ok && author != "" {
				s.historyReport(library.HistoryFilter{Author: author}, "historial_por_autor")
			}
		case 9:
			if cdj, ok := prompt(s.sc, "CDJ code: "); ok && cdj != "" {
				s.historyReport(library.HistoryFilter{CDJ: cdj}, "historial_por_cdj")
			}
		case 10:
			s.historyBetweenDates()
		case 11:
			return
		}
	}
}

func loanRows(details []library.LoanDetail) ([]string, [][]string) {
	headers := []string{"User", "Book", "CDJ", "Loaned", "Due", "Returned", "Status"}
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		userName, bookTitle, cdj := "-", "-", "-"
		if d.User != nil {
			userName = d.User.Name
		}
		if d.Book != nil {
			bookTitle, cdj = d.Book.Title, d.Book.CDJ
		}
		rows = append(rows, []string{
			truncate(userName, 25), truncate(bookTitle, 40), cdj,
			fmtDate(d.Loan.LoanedAt), fmtDate(d.Loan.DueAt),
			fmtDatePtr(d.Loan.ReturnedAt), d.Loan.Status,
		})
	}
	return headers, rows
}

// showLoanDetails renders a loan report and offers a CSV export.
func (s *session) showLoanDetails(heading string, report func() ([]library.LoanDetail, error)) {
	title(heading)
	details, err := report()
	if err != nil {
		failf("Could not build report: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(details) == 0 {
		warnf("Nothing to report")
		waitEnter(s.sc)
		return
	}
	headers, rows := loanRows(details)
	renderTable(headers, rows)
	s.offerExport("prestamos", headers, rows)
	waitEnter(s.sc)
}

func (s *session) availableBooksReport() {
	title("AVAILABLE BOOKS")
	lib, err := s.mgr.Snapshot()
	if err != nil {
		failf("Could not load catalog: %v", err)
		waitEnter(s.sc)
		return
	}
	available := lib.AvailableBooks()
	if len(available) == 0 {
		warnf("No books available right now")
		waitEnter(s.sc)
		return
	}
	headers, rows := bookRows(available)
	renderTable(headers, rows)
	s.offerExport("libros_disponibles", headers, rows)
	waitEnter(s.sc)
}

func (s *session) mostBorrowedReport() {
	title("MOST BORROWED BOOKS")
	tallies, err := s.mgr.MostBorrowedBooks(10)
	if err != nil {
		failf("Could not build report: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(tallies) == 0 {
		warnf("No loans recorded yet")
		waitEnter(s.sc)
		return
	}
	headers := []string{"CDJ", "Title", "Author", "Loans"}
	rows := make([][]string, 0, len(tallies))
	for _, t := range tallies {
		rows = append(rows, []string{
			t.Book.CDJ, truncate(t.Book.Title, 40), truncate(t.Book.Author, 25), strconv.Itoa(t.Count),
		})
	}
	renderTable(headers, rows)
	s.offerExport("libros_mas_prestados", headers, rows)
	waitEnter(s.sc)
}

func (s *session) topBorrowersReport() {
	title("TOP BORROWERS")
	tallies, err := s.mgr.MostActiveBorrowers(10)
	if err != nil {
		failf("Could not build report: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(tallies) == 0 {
		warnf("No loans recorded yet")
		waitEnter(s.sc)
		return
	}
	headers := []string{"Login", "Name", "Loans"}
	rows := make([][]string, 0, len(tallies))
	for _, t := range tallies {
		rows = append(rows, []string{t.User.Login, truncate(t.User.Name, 30), strconv.Itoa(t.Count)})
	}
	renderTable(headers, rows)
	s.offerExport("usuarios_mas_prestamos", headers, rows)
	waitEnter(s.sc)
}

func (s *session) loansByUserReport() {
	user := s.findUser("Login of the user: ")
	if user == nil {
		return
	}
	s.showLoanDetails("LOANS OF "+user.Name, func() ([]library.LoanDetail, error) {
		return s.mgr.UserLoanReport(user.ID)
	})
}

func (s *session) historyReport(filter library.HistoryFilter, exportName string) {
	title("LOAN HISTORY")
	details, err := s.mgr.History(filter)
	if err != nil {
		failf("Could not build report: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(details) == 0 {
		warnf("No loans match")
		waitEnter(s.sc)
		return
	}
	headers, rows := loanRows(details)
	renderTable(headers, rows)
	s.offerExport(exportName, headers, rows)
	waitEnter(s.sc)
}

func (s *session) historyBetweenDates() {
	from, ok := s.promptDate("From (DD-MM-YYYY): ")
	if !ok {
		return
	}
	to, ok := s.promptDate("To (DD-MM-YYYY): ")
	if !ok {
		return
	}
	// Make the upper bound inclusive for the whole day.
	to = to.AddDate(0, 0, 1).Add(-time.Second)
	s.historyReport(library.HistoryFilter{From: from, To: to}, "historial_entre_fechas")
}

func (s *session) promptDate(label string) (time.Time, bool) {
	for {
		raw, ok := prompt(s.sc, label)
		if !ok || raw == "" {
			return time.Time{}, false
		}
		t, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			failf("Invalid date, expected DD-MM-YYYY")
			continue
		}
		return t, true
	}
}

func (s *session) offerExport(name string, headers []string, rows [][]string) {
	if !confirm(s.sc, "Export to CSV?") {
		return
	}
	path, err := s.mgr.Export(name, headers, rows)
	if err != nil {
		failf("Export failed: %v", err)
		return
	}
	successf("CSV written to %s", path)
}
