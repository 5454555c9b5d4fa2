package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Database provides high-level helpers around a SQLite connection. Table
// and column names keep the Spanish vocabulary of the data they store.
type Database struct {
	db *sql.DB

	addUserStmt *sql.Stmt
	addBookStmt *sql.Stmt
	addLoanStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies
// schema migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys; _loc keeps DATETIME scans sane.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1&_loc=auto", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	for _, stmt := range []*sql.Stmt{d.addUserStmt, d.addBookStmt, d.addLoanStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            login TEXT NOT NULL UNIQUE,
            nombre TEXT NOT NULL,
            password TEXT NOT NULL,
            nivel TEXT NOT NULL DEFAULT 'usuario',
            dni TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            telefono TEXT NOT NULL DEFAULT '',
            direccion TEXT NOT NULL DEFAULT '',
            fecha_registro DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            activo BOOLEAN NOT NULL DEFAULT 1
        );`,
		`CREATE TABLE IF NOT EXISTS categorias (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            nombre TEXT NOT NULL,
            descripcion TEXT NOT NULL DEFAULT '',
            codigo_cdj TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS libros (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            titulo TEXT NOT NULL,
            autor TEXT NOT NULL,
            isbn TEXT NOT NULL DEFAULT '',
            codigo_cdj TEXT NOT NULL,
            categoria_id INTEGER NOT NULL REFERENCES categorias(id),
            editorial TEXT NOT NULL DEFAULT '',
            anio_publicacion INTEGER NOT NULL DEFAULT 0,
            estado TEXT NOT NULL DEFAULT 'disponible',
            activo BOOLEAN NOT NULL DEFAULT 1,
            cantidad INTEGER NOT NULL DEFAULT 1 CHECK (cantidad >= 0),
            ubicacion TEXT NOT NULL DEFAULT '',
            descripcion TEXT NOT NULL DEFAULT '',
            fecha_registro DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS prestamos (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            usuario_id INTEGER NOT NULL REFERENCES usuarios(id),
            libro_id INTEGER NOT NULL REFERENCES libros(id),
            fecha_prestamo DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            fecha_devolucion DATETIME NOT NULL,
            fecha_devolucion_real DATETIME,
            estado TEXT NOT NULL DEFAULT 'pendiente',
            observaciones TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE INDEX IF NOT EXISTS idx_prestamos_usuario ON prestamos(usuario_id);`,
		`CREATE INDEX IF NOT EXISTS idx_prestamos_libro ON prestamos(libro_id);`,
		`CREATE INDEX IF NOT EXISTS idx_libros_cdj ON libros(codigo_cdj);`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addUserStmt, err = d.db.Prepare(
		`INSERT INTO usuarios(login,nombre,password,nivel,dni,email,telefono,direccion,activo)
         VALUES(?,?,?,?,?,?,?,?,1)`); err != nil {
		return err
	}
	if d.addBookStmt, err = d.db.Prepare(
		`INSERT INTO libros(titulo,autor,isbn,codigo_cdj,categoria_id,editorial,anio_publicacion,estado,cantidad,ubicacion,descripcion)
         VALUES(?,?,?,?,?,?,?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addLoanStmt, err = d.db.Prepare(
		`INSERT INTO prestamos(usuario_id,libro_id,fecha_prestamo,fecha_devolucion,estado,observaciones)
         VALUES(?,?,?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

const userCols = `id,login,nombre,password,nivel,dni,email,telefono,direccion,fecha_registro,activo`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Login, &u.Name, &u.PasswordHash, &u.Role,
		&u.DNI, &u.Email, &u.Phone, &u.Address, &u.RegisteredAt, &u.Active)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// InsertUser stores a new account and returns its id. The password must
// already be hashed by the caller.
func (d *Database) InsertUser(u *User) (int64, error) {
	res, err := d.addUserStmt.Exec(u.Login, u.Name, u.PasswordHash, u.Role,
		u.DNI, u.Email, u.Phone, u.Address)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

// GetUser fetches a single user by id.
func (d *Database) GetUser(id int64) (*User, error) {
	u, err := scanUser(d.db.QueryRow(`SELECT `+userCols+` FROM usuarios WHERE id=?`, id))
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByLogin fetches a single user by its unique sign-in name.
func (d *Database) GetUserByLogin(login string) (*User, error) {
	u, err := scanUser(d.db.QueryRow(`SELECT `+userCols+` FROM usuarios WHERE login=?`, login))
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", login, err)
	}
	return u, nil
}

// GetUsers returns all accounts ordered by display name.
func (d *Database) GetUsers() ([]*User, error) {
	rows, err := d.db.Query(`SELECT ` + userCols + ` FROM usuarios ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser rewrites the editable fields of an existing account.
func (d *Database) UpdateUser(u *User) error {
	_, err := d.db.Exec(
		`UPDATE usuarios SET nombre=?, nivel=?, dni=?, email=?, telefono=?, direccion=? WHERE id=?`,
		u.Name, u.Role, u.DNI, u.Email, u.Phone, u.Address, u.ID)
	return err
}

// SetUserActive toggles the soft-delete flag. Accounts are never removed.
func (d *Database) SetUserActive(id int64, active bool) error {
	res, err := d.db.Exec(`UPDATE usuarios SET activo=? WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("user %d", id))
}

// UpdatePassword replaces the stored password hash.
func (d *Database) UpdatePassword(id int64, hash string) error {
	res, err := d.db.Exec(`UPDATE usuarios SET password=? WHERE id=?`, hash, id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("user %d", id))
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// InsertCategory stores a new category; the CDJ code must be unique.
func (d *Database) InsertCategory(c *Category) (int64, error) {
	res, err := d.db.Exec(
		`INSERT INTO categorias(nombre,descripcion,codigo_cdj) VALUES(?,?,?)`,
		c.Name, c.Description, c.CDJ)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

// GetCategory fetches a single category by id.
func (d *Database) GetCategory(id int64) (*Category, error) {
	var c Category
	err := d.db.QueryRow(`SELECT id,nombre,descripcion,codigo_cdj FROM categorias WHERE id=?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CDJ)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", id, err)
	}
	return &c, nil
}

// GetCategoryByCDJ fetches a single category by its classification code.
func (d *Database) GetCategoryByCDJ(code string) (*Category, error) {
	var c Category
	err := d.db.QueryRow(`SELECT id,nombre,descripcion,codigo_cdj FROM categorias WHERE codigo_cdj=?`, code).
		Scan(&c.ID, &c.Name, &c.Description, &c.CDJ)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", code, err)
	}
	return &c, nil
}

// GetCategories returns all categories ordered by CDJ code.
func (d *Database) GetCategories() ([]*Category, error) {
	rows, err := d.db.Query(`SELECT id,nombre,descripcion,codigo_cdj FROM categorias ORDER BY codigo_cdj`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CDJ); err != nil {
			return nil, err
		}
		cats = append(cats, &c)
	}
	return cats, rows.Err()
}

// UpdateCategory rewrites name, description and code of a category.
func (d *Database) UpdateCategory(c *Category) error {
	res, err := d.db.Exec(`UPDATE categorias SET nombre=?, descripcion=?, codigo_cdj=? WHERE id=?`,
		c.Name, c.Description, c.CDJ, c.ID)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("category %d", c.ID))
}

// DeleteCategory removes a category. It refuses while any book, active or
// retired, still references it, so historical data never dangles.
func (d *Database) DeleteCategory(id int64) error {
	var inUse bool
	if err := d.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM libros WHERE categoria_id=?)`, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("category %d still has books assigned", id)
	}
	res, err := d.db.Exec(`DELETE FROM categorias WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("category %d", id))
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

const bookCols = `id,titulo,autor,isbn,codigo_cdj,categoria_id,editorial,anio_publicacion,estado,activo,cantidad,ubicacion,descripcion,fecha_registro`

func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CDJ, &b.CategoryID,
		&b.Publisher, &b.Year, &b.Status, &b.Active, &b.Copies, &b.Shelf,
		&b.Description, &b.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// InsertBook stores a new book and returns its id. The category must
// already exist; foreign keys are enforced.
func (d *Database) InsertBook(b *Book) (int64, error) {
	status := b.Status
	if status == "" {
		status = BookAvailable
	}
	res, err := d.addBookStmt.Exec(b.Title, b.Author, b.ISBN, b.CDJ, b.CategoryID,
		b.Publisher, b.Year, status, b.Copies, b.Shelf, b.Description)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return res.LastInsertId()
}

// GetBook fetches a single book by id, retired ones included so loan
// history can always be rendered.
func (d *Database) GetBook(id int64) (*Book, error) {
	b, err := scanBook(d.db.QueryRow(`SELECT `+bookCols+` FROM libros WHERE id=?`, id))
	if err != nil {
		return nil, fmt.Errorf("book %d: %w", id, err)
	}
	return b, nil
}

// GetBookByCDJ fetches the first active book with the given code.
func (d *Database) GetBookByCDJ(code string) (*Book, error) {
	b, err := scanBook(d.db.QueryRow(
		`SELECT `+bookCols+` FROM libros WHERE codigo_cdj=? AND activo=1 ORDER BY id LIMIT 1`, code))
	if err != nil {
		return nil, fmt.Errorf("book %q: %w", code, err)
	}
	return b, nil
}

// GetBooks returns the active catalog ordered by CDJ code, then title.
func (d *Database) GetBooks() ([]*Book, error) {
	return d.queryBooks(`SELECT ` + bookCols + ` FROM libros WHERE activo=1 ORDER BY codigo_cdj, titulo`)
}

// SearchBooks matches the term as a substring of title, author or ISBN
// among active books.
func (d *Database) SearchBooks(term string) ([]*Book, error) {
	like := "%" + term + "%"
	return d.queryBooks(
		`SELECT `+bookCols+` FROM libros
         WHERE activo=1 AND (titulo LIKE ? OR autor LIKE ? OR isbn LIKE ?)
         ORDER BY codigo_cdj, titulo`, like, like, like)
}

func (d *Database) queryBooks(query string, args ...any) ([]*Book, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpdateBook rewrites the editable catalog fields of a book.
func (d *Database) UpdateBook(b *Book) error {
	res, err := d.db.Exec(
		`UPDATE libros SET titulo=?, autor=?, isbn=?, codigo_cdj=?, categoria_id=?, editorial=?,
            anio_publicacion=?, cantidad=?, ubicacion=?, descripcion=? WHERE id=?`,
		b.Title, b.Author, b.ISBN, b.CDJ, b.CategoryID, b.Publisher,
		b.Year, b.Copies, b.Shelf, b.Description, b.ID)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("book %d", b.ID))
}

// SetBookActive toggles the soft-delete flag on a book.
func (d *Database) SetBookActive(id int64, active bool) error {
	res, err := d.db.Exec(`UPDATE libros SET activo=? WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("book %d", id))
}

// UpdateBookStatus sets the shelf status (disponible/prestado/reservado).
func (d *Database) UpdateBookStatus(id int64, status string) error {
	res, err := d.db.Exec(`UPDATE libros SET estado=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("book %d", id))
}

// ---------------------------------------------------------------------------
// Loans
// ---------------------------------------------------------------------------

const loanCols = `id,usuario_id,libro_id,fecha_prestamo,fecha_devolucion,fecha_devolucion_real,estado,observaciones`

func scanLoan(row interface{ Scan(...any) error }) (*Loan, error) {
	var (
		l        Loan
		returned sql.NullTime
	)
	err := row.Scan(&l.ID, &l.UserID, &l.BookID, &l.LoanedAt, &l.DueAt,
		&returned, &l.Status, &l.Notes)
	if err != nil {
		return nil, err
	}
	if returned.Valid {
		t := returned.Time
		l.ReturnedAt = &t
	}
	return &l, nil
}

// InsertLoan stores a new loan and returns its id.
func (d *Database) InsertLoan(l *Loan) (int64, error) {
	status := l.Status
	if status == "" {
		status = LoanPending
	}
	res, err := d.addLoanStmt.Exec(l.UserID, l.BookID, l.LoanedAt, l.DueAt, status, l.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert loan: %w", err)
	}
	return res.LastInsertId()
}

// GetLoan fetches a single loan by id.
func (d *Database) GetLoan(id int64) (*Loan, error) {
	l, err := scanLoan(d.db.QueryRow(`SELECT `+loanCols+` FROM prestamos WHERE id=?`, id))
	if err != nil {
		return nil, fmt.Errorf("loan %d: %w", id, err)
	}
	return l, nil
}

// LoansByUser returns every loan of one user, oldest first.
func (d *Database) LoansByUser(userID int64) ([]*Loan, error) {
	return d.queryLoans(`SELECT `+loanCols+` FROM prestamos WHERE usuario_id=? ORDER BY fecha_prestamo, id`, userID)
}

// LiveLoansByBook returns the active and pending loans of one book; their
// count against the book's copy total decides availability.
func (d *Database) LiveLoansByBook(bookID int64) ([]*Loan, error) {
	return d.queryLoans(
		`SELECT `+loanCols+` FROM prestamos
         WHERE libro_id=? AND estado IN (?,?) ORDER BY fecha_prestamo, id`,
		bookID, LoanActive, LoanPending)
}

// ActiveLoans returns all outstanding loans ordered by due date.
func (d *Database) ActiveLoans() ([]*Loan, error) {
	return d.queryLoans(
		`SELECT `+loanCols+` FROM prestamos WHERE estado=? ORDER BY fecha_devolucion, id`, LoanActive)
}

// PendingLoans returns the approval queue, oldest request first.
func (d *Database) PendingLoans() ([]*Loan, error) {
	return d.queryLoans(
		`SELECT `+loanCols+` FROM prestamos WHERE estado=? ORDER BY fecha_prestamo, id`, LoanPending)
}

// OverdueLoans returns active loans whose due date has passed.
func (d *Database) OverdueLoans() ([]*Loan, error) {
	return d.queryLoans(
		`SELECT `+loanCols+` FROM prestamos
         WHERE estado=? AND fecha_devolucion < ? ORDER BY fecha_devolucion, id`,
		LoanActive, time.Now())
}

// AllLoans returns the full loan history, oldest first.
func (d *Database) AllLoans() ([]*Loan, error) {
	return d.queryLoans(`SELECT ` + loanCols + ` FROM prestamos ORDER BY fecha_prestamo, id`)
}

func (d *Database) queryLoans(query string, args ...any) ([]*Loan, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// UpdateLoanStatus moves a loan to a new lifecycle state. Marking a loan
// returned also stamps the actual return date.
func (d *Database) UpdateLoanStatus(id int64, status string) error {
	var (
		res sql.Result
		err error
	)
	if status == LoanReturned {
		res, err = d.db.Exec(`UPDATE prestamos SET estado=?, fecha_devolucion_real=? WHERE id=?`,
			status, time.Now(), id)
	} else {
		res, err = d.db.Exec(`UPDATE prestamos SET estado=? WHERE id=?`, status, id)
	}
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("loan %d", id))
}

// HasLiveLoan reports whether the user already holds an active or pending
// loan of the given book.
func (d *Database) HasLiveLoan(userID, bookID int64) (bool, error) {
	var exists bool
	err := d.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM prestamos WHERE usuario_id=? AND libro_id=? AND estado IN (?,?))`,
		userID, bookID, LoanActive, LoanPending).Scan(&exists)
	return exists, err
}

// LoanCount is one row of a grouped loan tally.
type LoanCount struct {
	ID    int64
	Count int
}

// LoanCountsByBook tallies how often each book was ever loaned, most
// requested first. Rejected requests do not count.
func (d *Database) LoanCountsByBook() ([]LoanCount, error) {
	return d.queryCounts(
		`SELECT libro_id, COUNT(*) FROM prestamos WHERE estado!=? GROUP BY libro_id ORDER BY COUNT(*) DESC, libro_id`,
		LoanRejected)
}

// LoanCountsByUser tallies loans per borrower, heaviest borrower first.
func (d *Database) LoanCountsByUser() ([]LoanCount, error) {
	return d.queryCounts(
		`SELECT usuario_id, COUNT(*) FROM prestamos WHERE estado!=? GROUP BY usuario_id ORDER BY COUNT(*) DESC, usuario_id`,
		LoanRejected)
}

func (d *Database) queryCounts(query string, args ...any) ([]LoanCount, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []LoanCount
	for rows.Next() {
		var c LoanCount
		if err := rows.Scan(&c.ID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ---------------------------------------------------------------------------
// Registry loading
// ---------------------------------------------------------------------------

// LoadLibrary reads all four collections into a fresh in-memory registry,
// each in insertion (id) order. This is the session-start snapshot the
// console layer queries between mutations.
func (d *Database) LoadLibrary() (*Library, error) {
	lib := NewLibrary()

	rows, err := d.db.Query(`SELECT ` + userCols + ` FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		lib.Users = append(lib.Users, u)
	}
	rows.Close()

	cats, err := d.db.Query(`SELECT id,nombre,descripcion,codigo_cdj FROM categorias ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for cats.Next() {
		var c Category
		if scanErr := cats.Scan(&c.ID, &c.Name, &c.Description, &c.CDJ); scanErr != nil {
			cats.Close()
			return nil, scanErr
		}
		lib.Categories = append(lib.Categories, &c)
	}
	cats.Close()

	books, err := d.queryBooks(`SELECT ` + bookCols + ` FROM libros ORDER BY id`)
	if err != nil {
		return nil, err
	}
	lib.Books = books

	loans, err := d.queryLoans(`SELECT ` + loanCols + ` FROM prestamos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	lib.Loans = loans

	return lib, nil
}

// requireRow converts a zero-rows-affected update into a not-found error.
func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found", what)
	}
	return nil
}
