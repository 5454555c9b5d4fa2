package library

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Domain errors surfaced to the console layer.
var (
	ErrInvalidLogin  = errors.New("invalid login or password")
	ErrInactiveUser  = errors.New("account is inactive")
	ErrLoanLimit     = errors.New("loan limit reached")
	ErrOverdueLoans  = errors.New("user has overdue loans")
	ErrDuplicateLoan = errors.New("user already has a live loan of this book")
	ErrNoCopies      = errors.New("no copies available")
)

// Settings carries the tunables the Manager needs. Zero fields fall back
// to sensible defaults.
type Settings struct {
	LoanDays        int
	MaxLoansPerUser int
	AdminLogin      string
	AdminPassword   string
	ExportDir       string
}

func (s *Settings) fillDefaults() {
	if s.LoanDays <= 0 {
		s.LoanDays = 15
	}
	if s.MaxLoansPerUser <= 0 {
		s.MaxLoansPerUser = 5
	}
	if s.AdminLogin == "" {
		s.AdminLogin = "admin"
	}
	if s.ExportDir == "" {
		s.ExportDir = "descargas"
	}
}

// Manager is a façade over the Database, keeping console code simple. It
// owns authentication, the loan lifecycle and report building.
type Manager struct {
	db  *Database
	cfg Settings
	log *slog.Logger
}

// NewManager opens (or creates) the database at dbPath.
func NewManager(dbPath string, cfg Settings, log *slog.Logger) (*Manager, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{db: db, cfg: cfg, log: log}, nil
}

// Close closes the underlying database.
func (m *Manager) Close() error { return m.db.Close() }

// DB exposes the persistence layer for plain CRUD the façade adds nothing to.
func (m *Manager) DB() *Database { return m.db }

// Snapshot loads the current state of all collections into a registry.
func (m *Manager) Snapshot() (*Library, error) { return m.db.LoadLibrary() }

// ------------------ Accounts ------------------

// Authenticate verifies login and password and returns the account.
// Inactive accounts cannot sign in.
func (m *Manager) Authenticate(login, password string) (*User, error) {
	u, err := m.db.GetUserByLogin(login)
	if err != nil {
		m.log.Debug("login failed", "login", login, "err", err)
		return nil, ErrInvalidLogin
	}
	if !u.Active {
		return nil, ErrInactiveUser
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		m.log.Debug("bad password", "login", login)
		return nil, ErrInvalidLogin
	}
	m.log.Info("user signed in", "login", login, "role", u.Role)
	return u, nil
}

// EnsureAdmin creates (or reactivates) the configured admin account so a
// fresh database is usable immediately.
func (m *Manager) EnsureAdmin() error {
	if m.cfg.AdminPassword == "" {
		return errors.New("admin password not configured")
	}
	u, err := m.db.GetUserByLogin(m.cfg.AdminLogin)
	if err == nil {
		if !u.Active {
			return m.db.SetUserActive(u.ID, true)
		}
		return nil
	}
	_, err = m.RegisterUser(&User{
		Login: m.cfg.AdminLogin,
		Name:  "Administrador",
		Role:  RoleAdmin,
	}, m.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	m.log.Info("admin account created", "login", m.cfg.AdminLogin)
	return nil
}

// RegisterUser hashes the password and stores the account.
func (m *Manager) RegisterUser(u *User, password string) (int64, error) {
	if u.Login == "" {
		return 0, errors.New("login cannot be empty")
	}
	if password == "" {
		return 0, errors.New("password cannot be empty")
	}
	if u.DNI != "" && !ValidDNI(u.DNI) {
		return 0, fmt.Errorf("invalid DNI %q: need exactly 8 digits", u.DNI)
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	id, err := m.db.InsertUser(u)
	if err != nil {
		return 0, err
	}
	u.ID = id
	m.log.Info("user registered", "login", u.Login, "role", u.Role)
	return id, nil
}

// ResetPassword stores a fresh bcrypt hash for the account.
func (m *Manager) ResetPassword(userID int64, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return m.db.UpdatePassword(userID, string(hash))
}

// DeactivateUser soft-deletes an account. The bootstrap admin cannot be
// deactivated, so the system always has a way in.
func (m *Manager) DeactivateUser(userID int64) error {
	u, err := m.db.GetUser(userID)
	if err != nil {
		return err
	}
	if u.Login == m.cfg.AdminLogin {
		return errors.New("the bootstrap admin cannot be deactivated")
	}
	return m.db.SetUserActive(userID, false)
}

// ReactivateUser re-enables a previously deactivated account.
func (m *Manager) ReactivateUser(userID int64) error {
	return m.db.SetUserActive(userID, true)
}

// ------------------ Loan lifecycle ------------------

// RequestLoan files a pending loan request for the book with the given
// CDJ code. Staff must approve it before the copy counts as lent out.
func (m *Manager) RequestLoan(userID int64, cdj string) (*Loan, error) {
	return m.createLoan(userID, cdj, LoanPending)
}

// IssueLoan hands a copy over immediately (staff desk flow): same checks
// as RequestLoan, but the loan starts out active.
func (m *Manager) IssueLoan(userID int64, cdj string) (*Loan, error) {
	return m.createLoan(userID, cdj, LoanActive)
}

func (m *Manager) createLoan(userID int64, cdj, status string) (*Loan, error) {
	user, err := m.db.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrInactiveUser
	}

	loans, err := m.db.LoansByUser(userID)
	if err != nil {
		return nil, err
	}
	live := 0
	for _, l := range loans {
		switch l.Status {
		case LoanActive, LoanPending:
			live++
		}
		if l.IsOverdue() {
			return nil, ErrOverdueLoans
		}
	}
	if live >= m.cfg.MaxLoansPerUser {
		return nil, ErrLoanLimit
	}

	book, err := m.db.GetBookByCDJ(cdj)
	if err != nil {
		return nil, err
	}
	dup, err := m.db.HasLiveLoan(userID, book.ID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateLoan
	}
	free, err := m.freeCopies(book)
	if err != nil {
		return nil, err
	}
	if free < 1 {
		return nil, ErrNoCopies
	}

	now := time.Now()
	loan := &Loan{
		UserID:   userID,
		BookID:   book.ID,
		LoanedAt: now,
		DueAt:    now.AddDate(0, 0, m.cfg.LoanDays),
		Status:   status,
	}
	id, err := m.db.InsertLoan(loan)
	if err != nil {
		return nil, err
	}
	loan.ID = id
	if err := m.RefreshBookStatus(book.ID); err != nil {
		return nil, err
	}
	m.log.Info("loan created", "loan", id, "user", userID, "book", book.ID, "status", status)
	return loan, nil
}

// ApproveLoan activates a pending request. If the requester meanwhile got
// hold of the same book the request is rejected automatically; if every
// copy is out with active loans the request stays pending.
func (m *Manager) ApproveLoan(loanID int64) error {
	loan, err := m.db.GetLoan(loanID)
	if err != nil {
		return err
	}
	if loan.Status != LoanPending {
		return fmt.Errorf("loan %d is %s, not pending", loanID, loan.Status)
	}

	var active int
	book, err := m.db.GetBook(loan.BookID)
	if err != nil {
		return err
	}
	live, err := m.db.LiveLoansByBook(loan.BookID)
	if err != nil {
		return err
	}
	for _, l := range live {
		if l.Status == LoanActive {
			if l.UserID == loan.UserID {
				if err := m.db.UpdateLoanStatus(loanID, LoanRejected); err != nil {
					return err
				}
				m.log.Warn("request auto-rejected", "loan", loanID, "user", loan.UserID)
				// The rejection frees the requested copy.
				if err := m.RefreshBookStatus(loan.BookID); err != nil {
					return err
				}
				return ErrDuplicateLoan
			}
			active++
		}
	}
	if active >= book.Copies {
		return ErrNoCopies
	}

	if err := m.db.UpdateLoanStatus(loanID, LoanActive); err != nil {
		return err
	}
	m.log.Info("loan approved", "loan", loanID)
	return m.RefreshBookStatus(loan.BookID)
}

// RejectLoan declines a pending request.
func (m *Manager) RejectLoan(loanID int64) error {
	loan, err := m.db.GetLoan(loanID)
	if err != nil {
		return err
	}
	if loan.Status != LoanPending {
		return fmt.Errorf("loan %d is %s, not pending", loanID, loan.Status)
	}
	if err := m.db.UpdateLoanStatus(loanID, LoanRejected); err != nil {
		return err
	}
	m.log.Info("loan rejected", "loan", loanID)
	return m.RefreshBookStatus(loan.BookID)
}

// ReturnLoan closes an active loan; the persistence layer stamps the
// actual return date.
func (m *Manager) ReturnLoan(loanID int64) error {
	loan, err := m.db.GetLoan(loanID)
	if err != nil {
		return err
	}
	if loan.Status != LoanActive {
		return fmt.Errorf("loan %d is %s, not active", loanID, loan.Status)
	}
	if err := m.db.UpdateLoanStatus(loanID, LoanReturned); err != nil {
		return err
	}
	m.log.Info("loan returned", "loan", loanID, "book", loan.BookID)
	return m.RefreshBookStatus(loan.BookID)
}

// RefreshBookStatus recomputes a book's shelf status from copy
// availability: any free copy means disponible, otherwise reservado while
// requests queue up, prestado when everything is out.
func (m *Manager) RefreshBookStatus(bookID int64) error {
	book, err := m.db.GetBook(bookID)
	if err != nil {
		return err
	}
	live, err := m.db.LiveLoansByBook(bookID)
	if err != nil {
		return err
	}
	var active, pending int
	for _, l := range live {
		if l.Status == LoanActive {
			active++
		} else {
			pending++
		}
	}

	status := BookBorrowed
	switch {
	case book.Copies-active-pending > 0:
		status = BookAvailable
	case pending > 0:
		status = BookReserved
	}
	if status == book.Status {
		return nil
	}
	return m.db.UpdateBookStatus(bookID, status)
}

func (m *Manager) freeCopies(book *Book) (int, error) {
	live, err := m.db.LiveLoansByBook(book.ID)
	if err != nil {
		return 0, err
	}
	return book.Copies - len(live), nil
}

// ------------------ Reports ------------------

// LoanDetail joins a loan with its user and book for rendering. User or
// Book may be nil only if referential integrity was broken externally.
type LoanDetail struct {
	Loan *Loan
	User *User
	Book *Book
}

// BookTally pairs a book with how often it was loaned.
type BookTally struct {
	Book  *Book
	Count int
}

// UserTally pairs a borrower with their loan count.
type UserTally struct {
	User  *User
	Count int
}

// MostBorrowedBooks returns up to limit books, most loaned first.
func (m *Manager) MostBorrowedBooks(limit int) ([]BookTally, error) {
	counts, err := m.db.LoanCountsByBook()
	if err != nil {
		return nil, err
	}
	var out []BookTally
	for _, c := range counts {
		if limit > 0 && len(out) >= limit {
			break
		}
		book, err := m.db.GetBook(c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BookTally{Book: book, Count: c.Count})
	}
	return out, nil
}

// MostActiveBorrowers returns up to limit users, heaviest borrower first.
func (m *Manager) MostActiveBorrowers(limit int) ([]UserTally, error) {
	counts, err := m.db.LoanCountsByUser()
	if err != nil {
		return nil, err
	}
	var out []UserTally
	for _, c := range counts {
		if limit > 0 && len(out) >= limit {
			break
		}
		user, err := m.db.GetUser(c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, UserTally{User: user, Count: c.Count})
	}
	return out, nil
}

// OverdueReport details every active loan past its due date.
func (m *Manager) OverdueReport() ([]LoanDetail, error) {
	loans, err := m.db.OverdueLoans()
	if err != nil {
		return nil, err
	}
	return m.detail(loans)
}

// ActiveLoanReport details every outstanding loan.
func (m *Manager) ActiveLoanReport() ([]LoanDetail, error) {
	loans, err := m.db.ActiveLoans()
	if err != nil {
		return nil, err
	}
	return m.detail(loans)
}

// PendingLoanReport details the approval queue.
func (m *Manager) PendingLoanReport() ([]LoanDetail, error) {
	loans, err := m.db.PendingLoans()
	if err != nil {
		return nil, err
	}
	return m.detail(loans)
}

// UserLoanReport details one user's full history.
func (m *Manager) UserLoanReport(userID int64) ([]LoanDetail, error) {
	loans, err := m.db.LoansByUser(userID)
	if err != nil {
		return nil, err
	}
	return m.detail(loans)
}

// LoanHistory details every loan ever recorded, optionally filtered.
// A zero filter returns everything.
type HistoryFilter struct {
	Author string
	CDJ    string
	From   time.Time
	To     time.Time
}

// History returns the loan history matching the filter, oldest first.
func (m *Manager) History(f HistoryFilter) ([]LoanDetail, error) {
	loans, err := m.db.AllLoans()
	if err != nil {
		return nil, err
	}
	details, err := m.detail(loans)
	if err != nil {
		return nil, err
	}

	var out []LoanDetail
	for _, d := range details {
		if f.Author != "" && (d.Book == nil || !containsFold(d.Book.Author, f.Author)) {
			continue
		}
		if f.CDJ != "" && (d.Book == nil || d.Book.CDJ != f.CDJ) {
			continue
		}
		if !f.From.IsZero() && d.Loan.LoanedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && d.Loan.LoanedAt.After(f.To) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *Manager) detail(loans []*Loan) ([]LoanDetail, error) {
	lib, err := m.db.LoadLibrary()
	if err != nil {
		return nil, err
	}
	users := make(map[int64]*User, len(lib.Users))
	for _, u := range lib.Users {
		users[u.ID] = u
	}
	books := make(map[int64]*Book, len(lib.Books))
	for _, b := range lib.Books {
		books[b.ID] = b
	}

	out := make([]LoanDetail, 0, len(loans))
	for _, l := range loans {
		out = append(out, LoanDetail{Loan: l, User: users[l.UserID], Book: books[l.BookID]})
	}
	return out, nil
}

// Export writes a report to a timestamped CSV in the configured directory.
func (m *Manager) Export(name string, headers []string, rows [][]string) (string, error) {
	path, err := ExportCSV(m.cfg.ExportDir, name, headers, rows)
	if err != nil {
		return "", err
	}
	m.log.Info("report exported", "path", path)
	return path, nil
}

// LoanDays returns the configured loan period.
func (m *Manager) LoanDays() int { return m.cfg.LoanDays }

// MaxLoansPerUser returns the configured per-user loan cap.
func (m *Manager) MaxLoansPerUser() int { return m.cfg.MaxLoansPerUser }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
