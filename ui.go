package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

const dateLayout = "02-01-2006"

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	errColor   = color.New(color.FgRed)
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
)

func title(s string) {
	bar := strings.Repeat("=", 50)
	titleColor.Printf("\n%s\n%s\n%s\n\n", bar, center(s, 50), bar)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func failf(format string, args ...any) {
	errColor.Printf("❌ "+format+"\n", args...)
}

func successf(format string, args ...any) {
	okColor.Printf("✅ "+format+"\n", args...)
}

func warnf(format string, args ...any) {
	warnColor.Printf("⚠️  "+format+"\n", args...)
}

// prompt reads one trimmed line; ok is false when stdin is closed.
func prompt(sc *bufio.Scanner, label string) (value string, ok bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptInt64(sc *bufio.Scanner, label string) (int64, bool) {
	for {
		raw, ok := prompt(sc, label)
		if !ok {
			return 0, false
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			failf("Invalid number: %s", raw)
			continue
		}
		return n, true
	}
}

// readPassword securely reads a password with masking.
func readPassword(label string) (string, error) {
	fmt.Print(label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func confirm(sc *bufio.Scanner, msg string) bool {
	answer, ok := prompt(sc, msg+" (y/n): ")
	return ok && strings.EqualFold(answer, "y")
}

func waitEnter(sc *bufio.Scanner) {
	fmt.Print("\nPress Enter to continue...")
	sc.Scan()
}

// renderTable prints headers plus rows in a bordered grid.
func renderTable(headers []string, rows [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// menu shows numbered options and returns the 1-based selection.
func menu(sc *bufio.Scanner, heading string, options []string) int {
	title(heading)
	for i, opt := range options {
		fmt.Printf("%d. %s\n", i+1, opt)
	}
	for {
		raw, ok := prompt(sc, "\nSelect an option: ")
		if !ok {
			return len(options) // EOF behaves like the last (exit) entry
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > len(options) {
			failf("Invalid option")
			continue
		}
		return n
	}
}

func fmtDate(t time.Time) string {
	return t.Format(dateLayout)
}

func fmtDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
