package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"file-categorizer/internal/category"
	"file-categorizer/internal/store"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

var categoryColors = map[category.Category]*color.Color{
	category.Graphics:  color.New(color.FgCyan),
	category.LightBurn: color.New(color.FgYellow),
	category.Vector:    color.New(color.FgGreen),
}

// renderRecords writes records in the requested format. The table
// format is for humans; json and csv are for piping into other tools.
func renderRecords(w io.Writer, records []store.FileRecord, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)

	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"ID", "Path", "Filename", "Category", "Size", "Modified Date", "Scanned Date", "Exists"}); err != nil {
			return err
		}
		for _, r := range records {
			row := []string{
				r.ID,
				r.Path,
				r.Filename,
				string(r.Category),
				strconv.FormatInt(r.Size, 10),
				r.ModifiedDate.Format(time.RFC3339),
				r.ScannedDate.Format(time.RFC3339),
				strconv.FormatBool(r.Exists),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	case formatTable:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILENAME\tCATEGORY\tSIZE\tMODIFIED\tPATH")
		for _, r := range records {
			name := r.Filename
			if !r.Exists {
				name = color.New(color.Faint).Sprint(name)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				name,
				colorizeCategory(r.Category),
				humanize.IBytes(uint64(r.Size)),
				r.ModifiedDate.Format("2006-01-02 15:04"),
				r.Path,
			)
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown format %q (valid: table, json, csv)", format)
	}
}

func colorizeCategory(c category.Category) string {
	if col, ok := categoryColors[c]; ok {
		return col.Sprint(string(c))
	}
	return string(c)
}
