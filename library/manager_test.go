package library

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func tempManager(t *testing.T, cfg Settings) *Manager {
	t.Helper()
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}
	mgr, err := NewManager(filepath.Join(t.TempDir(), "test.db"), cfg, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func registerBorrower(t *testing.T, mgr *Manager, login string) int64 {
	t.Helper()
	id, err := mgr.RegisterUser(&User{Login: login, Name: login, Role: RoleUser}, "secreto1")
	if err != nil {
		t.Fatalf("register %s: %v", login, err)
	}
	return id
}

func seedCatalog(t *testing.T, mgr *Manager, cdj string, copies int) int64 {
	t.Helper()
	catID, err := mgr.DB().InsertCategory(&Category{Name: "Literatura", CDJ: cdj[:3] + ".00"})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	bookID, err := mgr.DB().InsertBook(&Book{
		Title:      "Libro " + cdj,
		Author:     "Autor",
		CDJ:        cdj,
		CategoryID: catID,
		Copies:     copies,
	})
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return bookID
}

func TestAuthenticate(t *testing.T) {
	mgr := tempManager(t, Settings{})
	if err := mgr.EnsureAdmin(); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	admin, err := mgr.Authenticate("admin", "admin123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !admin.IsAdmin() {
		t.Fatalf("bootstrap account should be admin, got %s", admin.Role)
	}

	if _, err := mgr.Authenticate("admin", "wrong"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("want ErrInvalidLogin for bad password, got %v", err)
	}
	if _, err := mgr.Authenticate("nadie", "admin123"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("want ErrInvalidLogin for unknown login, got %v", err)
	}

	// Deactivated accounts cannot sign in even with the right password.
	userID := registerBorrower(t, mgr, "ana")
	if err := mgr.DeactivateUser(userID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := mgr.Authenticate("ana", "secreto1"); !errors.Is(err, ErrInactiveUser) {
		t.Fatalf("want ErrInactiveUser, got %v", err)
	}
	if err := mgr.ReactivateUser(userID); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if _, err := mgr.Authenticate("ana", "secreto1"); err != nil {
		t.Fatalf("reactivated account should sign in: %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	mgr := tempManager(t, Settings{})
	if err := mgr.EnsureAdmin(); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := mgr.EnsureAdmin(); err != nil {
		t.Fatalf("second: %v", err)
	}
	users, _ := mgr.DB().GetUsers()
	if len(users) != 1 {
		t.Fatalf("want a single admin account, got %d users", len(users))
	}

	// The bootstrap admin is protected from deactivation.
	if err := mgr.DeactivateUser(users[0].ID); err == nil {
		t.Fatalf("bootstrap admin should not be deactivatable")
	}
}

func TestRegisterUserValidation(t *testing.T) {
	mgr := tempManager(t, Settings{})

	if _, err := mgr.RegisterUser(&User{Name: "Sin Login"}, "pw"); err == nil {
		t.Fatalf("empty login should be rejected")
	}
	if _, err := mgr.RegisterUser(&User{Login: "ana"}, ""); err == nil {
		t.Fatalf("empty password should be rejected")
	}
	if _, err := mgr.RegisterUser(&User{Login: "ana", DNI: "123"}, "pw"); err == nil {
		t.Fatalf("malformed DNI should be rejected")
	}

	id, err := mgr.RegisterUser(&User{Login: "ana", Name: "Ana", DNI: "12345678"}, "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	u, _ := mgr.DB().GetUser(id)
	if u.Role != RoleUser {
		t.Fatalf("role should default to %s, got %s", RoleUser, u.Role)
	}
	if u.PasswordHash == "pw" || u.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestLoanLifecycle(t *testing.T) {
	mgr := tempManager(t, Settings{})
	userID := registerBorrower(t, mgr, "ana")
	bookID := seedCatalog(t, mgr, "800.03", 1)

	loan, err := mgr.RequestLoan(userID, "800.03")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if loan.Status != LoanPending {
		t.Fatalf("request should start pending, got %s", loan.Status)
	}
	wantDue := time.Now().AddDate(0, 0, mgr.LoanDays())
	if d := loan.DueAt.Sub(wantDue); d < -time.Minute || d > time.Minute {
		t.Fatalf("due date %v not %d days out", loan.DueAt, mgr.LoanDays())
	}

	// The single copy is spoken for, so the book shows as reserved.
	book, _ := mgr.DB().GetBook(bookID)
	if book.Status != BookReserved {
		t.Fatalf("want %s after request, got %s", BookReserved, book.Status)
	}

	if err := mgr.ApproveLoan(loan.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	book, _ = mgr.DB().GetBook(bookID)
	if book.Status != BookBorrowed {
		t.Fatalf("want %s after approval, got %s", BookBorrowed, book.Status)
	}

	if err := mgr.ApproveLoan(loan.ID); err == nil {
		t.Fatalf("approving a non-pending loan should fail")
	}

	if err := mgr.ReturnLoan(loan.ID); err != nil {
		t.Fatalf("return: %v", err)
	}
	got, _ := mgr.DB().GetLoan(loan.ID)
	if got.Status != LoanReturned || got.ReturnedAt == nil {
		t.Fatalf("returned loan not stamped: %+v", got)
	}
	book, _ = mgr.DB().GetBook(bookID)
	if book.Status != BookAvailable {
		t.Fatalf("want %s after return, got %s", BookAvailable, book.Status)
	}

	if err := mgr.ReturnLoan(loan.ID); err == nil {
		t.Fatalf("returning twice should fail")
	}
}

func TestIssueLoanStartsActive(t *testing.T) {
	mgr := tempManager(t, Settings{})
	userID := registerBorrower(t, mgr, "ana")
	bookID := seedCatalog(t, mgr, "800.03", 1)

	loan, err := mgr.IssueLoan(userID, "800.03")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if loan.Status != LoanActive {
		t.Fatalf("issued loan should be active, got %s", loan.Status)
	}
	book, _ := mgr.DB().GetBook(bookID)
	if book.Status != BookBorrowed {
		t.Fatalf("want %s, got %s", BookBorrowed, book.Status)
	}
}

func TestRejectLoan(t *testing.T) {
	mgr := tempManager(t, Settings{})
	userID := registerBorrower(t, mgr, "ana")
	bookID := seedCatalog(t, mgr, "800.03", 1)

	loan, _ := mgr.RequestLoan(userID, "800.03")
	if err := mgr.RejectLoan(loan.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ := mgr.DB().GetLoan(loan.ID)
	if got.Status != LoanRejected {
		t.Fatalf("want %s, got %s", LoanRejected, got.Status)
	}
	// Rejection frees the copy again.
	book, _ := mgr.DB().GetBook(bookID)
	if book.Status != BookAvailable {
		t.Fatalf("want %s after rejection, got %s", BookAvailable, book.Status)
	}
}

func TestLoanLimit(t *testing.T) {
	mgr := tempManager(t, Settings{MaxLoansPerUser: 1})
	userID := registerBorrower(t, mgr, "ana")
	seedCatalog(t, mgr, "800.03", 1)

	catID, _ := mgr.DB().InsertCategory(&Category{Name: "Ciencias", CDJ: "500.00"})
	_, err := mgr.DB().InsertBook(&Book{Title: "Cosmos", Author: "Sagan", CDJ: "500.01", CategoryID: catID, Copies: 1})
	if err != nil {
		t.Fatalf("seed second book: %v", err)
	}

	if _, err := mgr.RequestLoan(userID, "800.03"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := mgr.RequestLoan(userID, "500.01"); !errors.Is(err, ErrLoanLimit) {
		t.Fatalf("want ErrLoanLimit, got %v", err)
	}
}

func TestDuplicateLoanBlocked(t *testing.T) {
	mgr := tempManager(t, Settings{})
	userID := registerBorrower(t, mgr, "ana")
	seedCatalog(t, mgr, "800.03", 3)

	if _, err := mgr.RequestLoan(userID, "800.03"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := mgr.RequestLoan(userID, "800.03"); !errors.Is(err, ErrDuplicateLoan) {
		t.Fatalf("want ErrDuplicateLoan, got %v", err)
	}
}

func TestNoCopiesLeft(t *testing.T) {
	mgr := tempManager(t, Settings{})
	ana := registerBorrower(t, mgr, "ana")
	bruno := registerBorrower(t, mgr, "bruno")
	seedCatalog(t, mgr, "800.03", 1)

	if _, err := mgr.IssueLoan(ana, "800.03"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := mgr.RequestLoan(bruno, "800.03"); !errors.Is(err, ErrNoCopies) {
		t.Fatalf("want ErrNoCopies, got %v", err)
	}
}

func TestOverdueBorrowerBlocked(t *testing.T) {
	mgr := tempManager(t, Settings{})
	userID := registerBorrower(t, mgr, "ana")
	bookID := seedCatalog(t, mgr, "800.03", 2)

	// A loan well past its due date, written directly so the dates are in
	// the past.
	now := time.Now()
	_, err := mgr.DB().InsertLoan(&Loan{
		UserID:   userID,
		BookID:   bookID,
		LoanedAt: now.AddDate(0, 0, -30),
		DueAt:    now.AddDate(0, 0, -10),
		Status:   LoanActive,
	})
	if err != nil {
		t.Fatalf("seed overdue loan: %v", err)
	}

	if _, err := mgr.RequestLoan(userID, "800.03"); !errors.Is(err, ErrOverdueLoans) {
		t.Fatalf("want ErrOverdueLoans, got %v", err)
	}
}

func TestApproveAutoRejectsDuplicate(t *testing.T) {
	mgr := tempManager(t, Settings{})
	userID := registerBorrower(t, mgr, "ana")
	bookID := seedCatalog(t, mgr, "800.03", 2)

	if _, err := mgr.IssueLoan(userID, "800.03"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	// A second pending request for the same book slipped in before the
	// first loan was activated.
	now := time.Now()
	pendingID, _ := mgr.DB().InsertLoan(&Loan{
		UserID:   userID,
		BookID:   bookID,
		LoanedAt: now,
		DueAt:    now.AddDate(0, 0, 15),
		Status:   LoanPending,
	})
	if err := mgr.RefreshBookStatus(bookID); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	book, _ := mgr.DB().GetBook(bookID)
	if book.Status != BookReserved {
		t.Fatalf("both copies spoken for, want %s, got %s", BookReserved, book.Status)
	}

	if err := mgr.ApproveLoan(pendingID); !errors.Is(err, ErrDuplicateLoan) {
		t.Fatalf("want ErrDuplicateLoan, got %v", err)
	}
	got, _ := mgr.DB().GetLoan(pendingID)
	if got.Status != LoanRejected {
		t.Fatalf("duplicate request should end up %s, got %s", LoanRejected, got.Status)
	}
	// The rejection freed a copy, so the book must show as available again.
	book, _ = mgr.DB().GetBook(bookID)
	if book.Status != BookAvailable {
		t.Fatalf("want %s after auto-reject, got %s", BookAvailable, book.Status)
	}
}

func TestApproveWithAllCopiesOut(t *testing.T) {
	mgr := tempManager(t, Settings{})
	ana := registerBorrower(t, mgr, "ana")
	bruno := registerBorrower(t, mgr, "bruno")
	bookID := seedCatalog(t, mgr, "800.03", 1)

	if _, err := mgr.IssueLoan(ana, "800.03"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	now := time.Now()
	pendingID, _ := mgr.DB().InsertLoan(&Loan{
		UserID:   bruno,
		BookID:   bookID,
		LoanedAt: now,
		DueAt:    now.AddDate(0, 0, 15),
		Status:   LoanPending,
	})

	// The request stays pending until a copy frees up.
	if err := mgr.ApproveLoan(pendingID); !errors.Is(err, ErrNoCopies) {
		t.Fatalf("want ErrNoCopies, got %v", err)
	}
	got, _ := mgr.DB().GetLoan(pendingID)
	if got.Status != LoanPending {
		t.Fatalf("request should stay pending, got %s", got.Status)
	}
}

func TestReports(t *testing.T) {
	mgr := tempManager(t, Settings{})
	ana := registerBorrower(t, mgr, "ana")
	bruno := registerBorrower(t, mgr, "bruno")
	bookID := seedCatalog(t, mgr, "800.03", 3)

	now := time.Now()
	due := now.AddDate(0, 0, 15)
	_, _ = mgr.DB().InsertLoan(&Loan{UserID: ana, BookID: bookID, LoanedAt: now.AddDate(0, 0, -40), DueAt: now.AddDate(0, 0, -25), Status: LoanReturned})
	_, _ = mgr.DB().InsertLoan(&Loan{UserID: ana, BookID: bookID, LoanedAt: now.AddDate(0, 0, -20), DueAt: now.AddDate(0, 0, -5), Status: LoanActive})
	_, _ = mgr.DB().InsertLoan(&Loan{UserID: bruno, BookID: bookID, LoanedAt: now, DueAt: due, Status: LoanPending})

	overdue, err := mgr.OverdueReport()
	if err != nil {
		t.Fatalf("overdue report: %v", err)
	}
	if len(overdue) != 1 || overdue[0].User == nil || overdue[0].User.Login != "ana" {
		t.Fatalf("unexpected overdue report: %+v", overdue)
	}
	if overdue[0].Book == nil || overdue[0].Book.CDJ != "800.03" {
		t.Fatalf("overdue report missing book detail")
	}

	active, _ := mgr.ActiveLoanReport()
	if len(active) != 1 {
		t.Fatalf("want 1 active loan, got %d", len(active))
	}
	pending, _ := mgr.PendingLoanReport()
	if len(pending) != 1 || pending[0].User.Login != "bruno" {
		t.Fatalf("unexpected pending report: %+v", pending)
	}
	history, _ := mgr.UserLoanReport(ana)
	if len(history) != 2 {
		t.Fatalf("want 2 loans for ana, got %d", len(history))
	}

	tallies, _ := mgr.MostBorrowedBooks(10)
	if len(tallies) != 1 || tallies[0].Count != 3 {
		t.Fatalf("unexpected book tallies: %+v", tallies)
	}
	borrowers, _ := mgr.MostActiveBorrowers(1)
	if len(borrowers) != 1 || borrowers[0].User.Login != "ana" {
		t.Fatalf("unexpected top borrower: %+v", borrowers)
	}
}

func TestHistoryFilter(t *testing.T) {
	mgr := tempManager(t, Settings{})
	userID := registerBorrower(t, mgr, "ana")

	catID, _ := mgr.DB().InsertCategory(&Category{Name: "Literatura", CDJ: "800.00"})
	borges, _ := mgr.DB().InsertBook(&Book{Title: "Ficciones", Author: "Jorge Luis Borges", CDJ: "800.03", CategoryID: catID, Copies: 1})
	sagan, _ := mgr.DB().InsertBook(&Book{Title: "Cosmos", Author: "Carl Sagan", CDJ: "500.01", CategoryID: catID, Copies: 1})

	now := time.Now()
	due := now.AddDate(0, 0, 15)
	_, _ = mgr.DB().InsertLoan(&Loan{UserID: userID, BookID: borges, LoanedAt: now.AddDate(0, 0, -60), DueAt: due, Status: LoanReturned})
	_, _ = mgr.DB().InsertLoan(&Loan{UserID: userID, BookID: sagan, LoanedAt: now, DueAt: due, Status: LoanActive})

	all, err := mgr.History(HistoryFilter{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want full history, got %d", len(all))
	}

	byAuthor, _ := mgr.History(HistoryFilter{Author: "borges"})
	if len(byAuthor) != 1 || byAuthor[0].Book.Title != "Ficciones" {
		t.Fatalf("author filter failed: %+v", byAuthor)
	}

	byCDJ, _ := mgr.History(HistoryFilter{CDJ: "500.01"})
	if len(byCDJ) != 1 || byCDJ[0].Book.Title != "Cosmos" {
		t.Fatalf("cdj filter failed: %+v", byCDJ)
	}

	recent, _ := mgr.History(HistoryFilter{From: now.AddDate(0, 0, -7)})
	if len(recent) != 1 || recent[0].Book.Title != "Cosmos" {
		t.Fatalf("date filter failed: %+v", recent)
	}
}

func TestSnapshotReflectsMutations(t *testing.T) {
	mgr := tempManager(t, Settings{})
	userID := registerBorrower(t, mgr, "ana")
	seedCatalog(t, mgr, "800.03", 1)

	lib, err := mgr.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(lib.AvailableBooks()) != 1 {
		t.Fatalf("seeded book should be available")
	}

	if _, err := mgr.IssueLoan(userID, "800.03"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	lib, _ = mgr.Snapshot()
	if len(lib.AvailableBooks()) != 0 {
		t.Fatalf("borrowed book still listed as available")
	}
	if len(lib.LoansForUser(userID)) != 1 {
		t.Fatalf("snapshot missing the new loan")
	}
}
