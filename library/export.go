package library

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportCSV writes a header row plus data rows to a timestamped CSV file
// under dir, creating the directory on first use. The file name becomes
// YYYYMMDDhhmm_<name>.csv so repeated exports never clobber each other.
// Returns the full path of the written file.
func ExportCSV(dir, name string, headers []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	path := filepath.Join(dir, time.Now().Format("200601021504")+"_"+name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write csv rows: %w", err)
	}
	return path, nil
}
