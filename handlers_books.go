package main

import (
	"fmt"
	"strconv"

	"biblioteca/library"
)

func (s *session) booksMenu() {
	for {
		choice := menu(s.sc, "BOOK MANAGEMENT", []string{
			"List books", "Search books", "Available books", "Add book",
			"Update book", "Retire book", "Back",
		})
		switch choice {
		case 1:
			s.listBooks()
		case 2:
			s.searchBooks()
		case 3:
			s.listAvailableBooks()
		case 4:
			s.addBook()
		case 5:
			s.updateBook()
		case 6:
			s.retireBook()
		case 7:
			return
		}
	}
}

func bookRows(books []*library.Book) ([]string, [][]string) {
	headers := []string{"CDJ", "Title", "Author", "ISBN", "Status", "Copies", "Shelf"}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			b.CDJ, truncate(b.Title, 40), truncate(b.Author, 25), b.ISBN,
			b.Status, strconv.Itoa(b.Copies), b.Shelf,
		})
	}
	return headers, rows
}

func (s *session) listBooks() {
	books, err := s.mgr.DB().GetBooks()
	if err != nil {
		failf("Could not list books: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(books) == 0 {
		warnf("No books in the catalog")
		waitEnter(s.sc)
		return
	}
	headers, rows := bookRows(books)
	renderTable(headers, rows)
	waitEnter(s.sc)
}

func (s *session) searchBooks() {
	term, ok := prompt(s.sc, "Search (title, author or ISBN): ")
	if !ok || term == "" {
		return
	}
	books, err := s.mgr.DB().SearchBooks(term)
	if err != nil {
		failf("Search failed: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(books) == 0 {
		warnf("No books match '%s'", term)
		waitEnter(s.sc)
		return
	}
	fmt.Printf("Found %d book(s):\n", len(books))
	headers, rows := bookRows(books)
	renderTable(headers, rows)
	waitEnter(s.sc)
}

// listAvailableBooks answers from the in-memory registry snapshot.
func (s *session) listAvailableBooks() {
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
	waitEnter(s.sc)
}

func (s *session) addBook() {
	title("ADD BOOK")
	s.listCategories()
	cdjCat, ok := prompt(s.sc, "Category CDJ code: ")
	if !ok {
		return
	}
	cat, err := s.mgr.DB().GetCategoryByCDJ(cdjCat)
	if err != nil {
		failf("Category '%s' not found; add it first", cdjCat)
		waitEnter(s.sc)
		return
	}

	titleText, ok := prompt(s.sc, "Title: ")
	if !ok || titleText == "" {
		failf("Title cannot be empty")
		waitEnter(s.sc)
		return
	}
	author, _ := prompt(s.sc, "Author: ")
	isbn, _ := prompt(s.sc, "ISBN: ")
	if isbn != "" && !library.ValidISBN(isbn) {
		failf("Invalid ISBN: need 10 or 13 digits")
		waitEnter(s.sc)
		return
	}
	cdj, _ := prompt(s.sc, fmt.Sprintf("Book CDJ code [%s]: ", cat.CDJ))
	if cdj == "" {
		cdj = cat.CDJ
	} else if !library.ValidCDJ(cdj) {
		failf("Invalid CDJ code: expected digits.digits")
		waitEnter(s.sc)
		return
	}
	publisher, _ := prompt(s.sc, "Publisher: ")
	year, _ := promptInt64(s.sc, "Publication year: ")
	copies, _ := promptInt64(s.sc, "Number of copies: ")
	if copies < 0 {
		failf("Copies cannot be negative")
		waitEnter(s.sc)
		return
	}
	shelf, _ := prompt(s.sc, "Shelf location: ")
	desc, _ := prompt(s.sc, "Description: ")

	book := &library.Book{
		Title:       titleText,
		Author:      author,
		ISBN:        isbn,
		CDJ:         cdj,
		CategoryID:  cat.ID,
		Publisher:   publisher,
		Year:        int(year),
		Copies:      int(copies),
		Shelf:       shelf,
		Description: desc,
	}
	id, err := s.mgr.DB().InsertBook(book)
	if err != nil {
		failf("Could not add book: %v", err)
	} else {
		successf("Book '%s' added with ID %d", titleText, id)
	}
	waitEnter(s.sc)
}

func (s *session) findBook(label string) *library.Book {
	cdj, ok := prompt(s.sc, label)
	if !ok || cdj == "" {
		return nil
	}
	book, err := s.mgr.DB().GetBookByCDJ(cdj)
	if err != nil {
		failf("Book '%s' not found", cdj)
		return nil
	}
	return book
}

func (s *session) updateBook() {
	title("UPDATE BOOK")
	book := s.findBook("CDJ code of the book to update: ")
	if book == nil {
		waitEnter(s.sc)
		return
	}

	if v, ok := prompt(s.sc, fmt.Sprintf("Title [%s]: ", book.Title)); ok && v != "" {
		book.Title = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Author [%s]: ", book.Author)); ok && v != "" {
		book.Author = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("ISBN [%s]: ", book.ISBN)); ok && v != "" {
		if !library.ValidISBN(v) {
			failf("Invalid ISBN: need 10 or 13 digits")
			waitEnter(s.sc)
			return
		}
		book.ISBN = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Publisher [%s]: ", book.Publisher)); ok && v != "" {
		book.Publisher = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Copies [%d]: ", book.Copies)); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			failf("Copies must be a non-negative number")
			waitEnter(s.sc)
			return
		}
		book.Copies = n
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Shelf [%s]: ", book.Shelf)); ok && v != "" {
		book.Shelf = v
	}

	if err := s.mgr.DB().UpdateBook(book); err != nil {
		failf("Could not update book: %v", err)
		waitEnter(s.sc)
		return
	}
	// Copy count changes can change availability.
	if err := s.mgr.RefreshBookStatus(book.ID); err != nil {
		failf("Could not refresh book status: %v", err)
	} else {
		successf("Book '%s' updated", book.Title)
	}
	waitEnter(s.sc)
}

func (s *session) retireBook() {
	title("RETIRE BOOK")
	book := s.findBook("CDJ code of the book to retire: ")
	if book == nil {
		waitEnter(s.sc)
		return
	}
	live, err := s.mgr.DB().LiveLoansByBook(book.ID)
	if err != nil {
		failf("Could not check loans: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(live) > 0 {
		failf("Book '%s' still has %d live loan(s); resolve them first", book.Title, len(live))
		waitEnter(s.sc)
		return
	}
	if !confirm(s.sc, fmt.Sprintf("Really retire '%s'? Loan history is kept", book.Title)) {
		return
	}
	if err := s.mgr.DB().SetBookActive(book.ID, false); err != nil {
		failf("Could not retire book: %v", err)
	} else {
		successf("Book '%s' retired", book.Title)
	}
	waitEnter(s.sc)
}
