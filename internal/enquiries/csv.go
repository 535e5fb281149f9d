package enquiries

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// WriteCSV renders enquiries as CSV with a header row, newest first as given.
func WriteCSV(w io.Writer, enquiries []Enquiry) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "name", "email", "phone", "service", "message", "status", "created_at", "updated_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range enquiries {
		record := []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Name,
			e.Email,
			e.Phone,
			e.Service,
			e.Message,
			e.Status,
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
