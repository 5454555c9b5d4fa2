package main

import (
	"fmt"
	"os"

	"biblioteca/config"
	"biblioteca/library"
)

type seedBook struct {
	title     string
	author    string
	isbn      string
	cdj       string
	publisher string
	year      int
	copies    int
	shelf     string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Start from a clean database, sidecar files included.
	fmt.Println("Removing existing database files...")
	for _, file := range []string{cfg.DBPath, cfg.DBPath + "-shm", cfg.DBPath + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: could not remove %s: %v\n", file, err)
		}
	}

	mgr, err := library.NewManager(cfg.DBPath, library.Settings{
		LoanDays:        cfg.LoanDays,
		MaxLoansPerUser: cfg.MaxLoansPerUser,
		AdminLogin:      cfg.AdminUsername,
		AdminPassword:   cfg.AdminPassword,
		ExportDir:       cfg.ExportDir,
	}, config.NewLogger(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	if err := mgr.EnsureAdmin(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating admin: %v\n", err)
		os.Exit(1)
	}

	categories := []*library.Category{
		{Name: "Literatura", Description: "Novela y cuento", CDJ: "800.00"},
		{Name: "Historia", Description: "Historia argentina y universal", CDJ: "900.00"},
		{Name: "Ciencias", Description: "Ciencias naturales y exactas", CDJ: "500.00"},
		{Name: "Tecnología", Description: "Informática e ingeniería", CDJ: "600.00"},
	}
	categoryIDs := map[string]int64{}
	for _, c := range categories {
		id, err := mgr.DB().InsertCategory(c)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding category %s: %v\n", c.Name, err)
			os.Exit(1)
		}
		categoryIDs[c.CDJ] = id
	}
	fmt.Printf("Seeded %d categories\n", len(categories))

	books := []seedBook{
		{"Cien años de soledad", "Gabriel García Márquez", "9780307474728", "800.01", "Sudamericana", 1967, 3, "A1"},
		{"Rayuela", "Julio Cortázar", "9788437604572", "800.02", "Sudamericana", 1963, 2, "A1"},
		{"Ficciones", "Jorge Luis Borges", "9780802130303", "800.03", "Emecé", 1944, 2, "A2"},
		{"El Aleph", "Jorge Luis Borges", "9788499089515", "800.04", "Losada", 1949, 1, "A2"},
		{"Historia argentina", "Félix Luna", "9789504912345", "900.01", "Planeta", 1994, 2, "B1"},
		{"Breve historia del mundo", "Ernst Gombrich", "9788483066744", "900.02", "Península", 1935, 1, "B1"},
		{"Cosmos", "Carl Sagan", "9780345539434", "500.01", "Random House", 1980, 2, "C1"},
		{"El gen egoísta", "Richard Dawkins", "9788434501782", "500.02", "Salvat", 1976, 1, "C1"},
		{"Clean Code", "Robert C. Martin", "9780132350884", "600.01", "Prentice Hall", 2008, 2, "D1"},
		{"The Go Programming Language", "Donovan y Kernighan", "9780134190440", "600.02", "Addison-Wesley", 2015, 1, "D1"},
	}

	success, failed := 0, 0
	for _, b := range books {
		category := b.cdj[:3] + ".00"
		fmt.Printf("Seeding: %s by %s... ", b.title, b.author)
		_, err := mgr.DB().InsertBook(&library.Book{
			Title:      b.title,
			Author:     b.author,
			ISBN:       b.isbn,
			CDJ:        b.cdj,
			CategoryID: categoryIDs[category],
			Publisher:  b.publisher,
			Year:       b.year,
			Copies:     b.copies,
			Shelf:      b.shelf,
		})
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			failed++
			continue
		}
		fmt.Println("OK")
		success++
	}

	demoUsers := []struct {
		login, name, role, dni string
	}{
		{"mstaff", "Mariana Suárez", library.RoleStaff, "30111222"},
		{"jperez", "Juan Pérez", library.RoleUser, "28333444"},
		{"agomez", "Ana Gómez", library.RoleUser, "31555666"},
	}
	for _, u := range demoUsers {
		_, err := mgr.RegisterUser(&library.User{
			Login: u.login, Name: u.name, Role: u.role, DNI: u.dni,
		}, "cambiame123")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding user %s: %v\n", u.login, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Seeded %d demo users (password: cambiame123)\n", len(demoUsers))

	fmt.Printf("\nSeed complete! Books: %d ok, %d failed\n", success, failed)
}
