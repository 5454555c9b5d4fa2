package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"biblioteca/config"
	"biblioteca/library"
)

func main() {
	root := &cobra.Command{
		Use:           "biblioteca",
		Short:         "Console library management system",
		Long:          "Interactive console for managing users, books, categories and loans.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession()
		},
	}
	root.AddCommand(newExportCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session holds everything one signed-in console session needs.
type session struct {
	mgr  *library.Manager
	sc   *bufio.Scanner
	user *library.User
}

func runSession() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg)

	mgr, err := library.NewManager(cfg.DBPath, library.Settings{
		LoanDays:        cfg.LoanDays,
		MaxLoansPerUser: cfg.MaxLoansPerUser,
		AdminLogin:      cfg.AdminUsername,
		AdminPassword:   cfg.AdminPassword,
		ExportDir:       cfg.ExportDir,
	}, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer mgr.Close()

	if err := mgr.EnsureAdmin(); err != nil {
		return err
	}

	sc := bufio.NewScanner(os.Stdin)
	for {
		user, ok := login(sc, mgr)
		if !ok {
			successf("Thanks for using the library system!")
			return nil
		}
		s := &session{mgr: mgr, sc: sc, user: user}
		s.mainMenu()
	}
}

// login asks for credentials until a sign-in succeeds or the user quits.
func login(sc *bufio.Scanner, mgr *library.Manager) (*library.User, bool) {
	for {
		title("BIBLIOTECA - SIGN IN")
		name, ok := prompt(sc, "Login (or 'exit' to quit): ")
		if !ok || strings.EqualFold(name, "exit") {
			return nil, false
		}
		password, err := readPassword("Password: ")
		if err != nil {
			failf("Could not read password: %v", err)
			return nil, false
		}

		user, err := mgr.Authenticate(name, password)
		if err != nil {
			switch {
			case errors.Is(err, library.ErrInactiveUser):
				failf("Account is inactive. Contact an administrator.")
			default:
				failf("Invalid login or password")
			}
			if !confirm(sc, "Try again?") {
				return nil, false
			}
			continue
		}
		successf("Welcome, %s!", user.Name)
		return user, true
	}
}

func (s *session) mainMenu() {
	for {
		var options []string
		switch {
		case s.user.IsAdmin():
			options = []string{"Users", "Categories", "Books", "Loans", "Reports", "Log out"}
		case s.user.IsStaff():
			options = []string{"Books", "Loans", "Reports", "Log out"}
		default:
			options = []string{"Search books", "Available books", "Request a loan",
				"My active loans", "My loan history", "My profile", "Change my password", "Log out"}
		}

		choice := menu(s.sc, "MAIN MENU - "+s.user.Name, options)
		switch {
		case s.user.IsAdmin():
			switch choice {
			case 1:
				s.usersMenu()
			case 2:
				s.categoriesMenu()
			case 3:
				s.booksMenu()
			case 4:
				s.loansMenu()
			case 5:
				s.reportsMenu()
			case 6:
				return
			}
		case s.user.IsStaff():
			switch choice {
			case 1:
				s.booksMenu()
			case 2:
				s.loansMenu()
			case 3:
				s.reportsMenu()
			case 4:
				return
			}
		default:
			switch choice {
			case 1:
				s.searchBooks()
			case 2:
				s.listAvailableBooks()
			case 3:
				s.requestLoan()
			case 4:
				s.myActiveLoans()
			case 5:
				s.myHistory()
			case 6:
				s.myProfile()
			case 7:
				s.changeOwnPassword()
			case 8:
				return
			}
		}
	}
}

func (s *session) changeOwnPassword() {
	current, err := readPassword("Current password: ")
	if err != nil {
		failf("Could not read password: %v", err)
		return
	}
	if _, err := s.mgr.Authenticate(s.user.Login, current); err != nil {
		failf("Current password is wrong")
		waitEnter(s.sc)
		return
	}
	next, err := readPassword("New password: ")
	if err != nil {
		failf("Could not read password: %v", err)
		return
	}
	if err := s.mgr.ResetPassword(s.user.ID, next); err != nil {
		failf("Could not change password: %v", err)
	} else {
		successf("Password updated")
	}
	waitEnter(s.sc)
}

// newExportCommand dumps a report straight to CSV without entering the
// interactive session, handy for cron or shell pipelines.
func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "export {loans|overdue|books|users}",
		Short:     "Export a report to a timestamped CSV file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"loans", "overdue", "books", "users"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			mgr, err := library.NewManager(cfg.DBPath, library.Settings{
				LoanDays:        cfg.LoanDays,
				MaxLoansPerUser: cfg.MaxLoansPerUser,
				AdminLogin:      cfg.AdminUsername,
				AdminPassword:   cfg.AdminPassword,
				ExportDir:       cfg.ExportDir,
			}, config.NewLogger(cfg))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer mgr.Close()

			path, err := exportReport(mgr, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Exported %s\n", path)
			return nil
		},
	}
}

func exportReport(mgr *library.Manager, what string) (string, error) {
	switch what {
	case "loans":
		details, err := mgr.History(library.HistoryFilter{})
		if err != nil {
			return "", err
		}
		headers, rows := loanRows(details)
		return mgr.Export("historial_prestamos", headers, rows)
	case "overdue":
		details, err := mgr.OverdueReport()
		if err != nil {
			return "", err
		}
		headers, rows := loanRows(details)
		return mgr.Export("prestamos_vencidos", headers, rows)
	case "books":
		books, err := mgr.DB().GetBooks()
		if err != nil {
			return "", err
		}
		headers, rows := bookRows(books)
		return mgr.Export("libros", headers, rows)
	case "users":
		users, err := mgr.DB().GetUsers()
		if err != nil {
			return "", err
		}
		headers, rows := userRows(users)
		return mgr.Export("usuarios", headers, rows)
	default:
		return "", fmt.Errorf("unknown report %q", what)
	}
}
