package library

import "time"

// User roles as stored in the database. Admins manage accounts and
// categories, staff manage books and loans, regular users borrow books.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "usuario"
)

// Book shelf statuses. Recomputed from copy availability after every loan
// mutation, see Manager.RefreshBookStatus.
const (
	BookAvailable = "disponible"
	BookBorrowed  = "prestado"
	BookReserved  = "reservado"
)

// Loan lifecycle states: a request starts out pending, staff either reject
// it or activate it, and an active loan ends returned.
const (
	LoanPending  = "pendiente"
	LoanActive   = "activo"
	LoanRejected = "rechazado"
	LoanReturned = "devuelto"
)

// User represents an account that can sign in and borrow books.
// Accounts are deactivated via the Active flag, never deleted, so old
// loans keep a valid user reference.
type User struct {
	ID           int64
	Login        string // unique sign-in name
	Name         string
	PasswordHash string
	Role         string
	DNI          string
	Email        string
	Phone        string
	Address      string
	RegisteredAt time.Time
	Active       bool
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsStaff reports whether the user is library staff.
func (u *User) IsStaff() bool { return u.Role == RoleStaff }

// Category groups books under a CDJ classification code.
type Category struct {
	ID          int64
	Name        string
	Description string
	CDJ         string
}

// Book holds catalog metadata for a title the library owns one or more
// copies of. Removal is soft: Active flips to false and the row stays.
type Book struct {
	ID           int64
	Title        string
	Author       string
	ISBN         string
	CDJ          string
	CategoryID   int64
	Publisher    string
	Year         int
	Status       string
	Active       bool
	Copies       int
	Shelf        string
	Description  string
	RegisteredAt time.Time
}

// Loan records one copy of a book lent (or requested) by a user.
type Loan struct {
	ID         int64
	UserID     int64
	BookID     int64
	LoanedAt   time.Time
	DueAt      time.Time
	ReturnedAt *time.Time
	Status     string
	Notes      string
}

// IsOverdue reports whether the loan is still active past its due date.
// A loan marked returned never counts as overdue, even when it came back
// late; ReturnedAt plays no part in the decision.
func (l *Loan) IsOverdue() bool {
	return l.Status == LoanActive && time.Now().After(l.DueAt)
}
