package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"creatorpay/internal/video"
)

const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
)

var printer = message.NewPrinter(language.English)

// readRows decodes a CSV export from path, or stdin when path is "-".
func readRows(cmd *cobra.Command, path string) ([]video.Row, error) {
	if path == "-" {
		rows, err := video.ReadCSV(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return rows, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer file.Close()
	rows, err := video.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// resolveFormat turns "auto" into table on a terminal and JSON otherwise.
func resolveFormat(flagValue, configured string, out io.Writer) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if format == "" {
		format = configured
	}
	switch format {
	case formatTable, formatJSON:
		return format, nil
	case "", formatAuto:
		if isTerminal(out) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use auto, table or json)", flagValue)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

func formatMoney(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func formatRate(v float64) string {
	return fmt.Sprintf("$%.5f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
