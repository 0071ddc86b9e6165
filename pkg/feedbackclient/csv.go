package feedbackclient

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/NomadCrew/feedback-service/types"
)

var csvHeader = []string{"id", "name", "email", "message", "created_at"}

// WriteCSV writes rows with every field quoted and embedded quotes doubled.
// Records end in CRLF.
func WriteCSV(w io.Writer, rows []types.Feedback) error {
	bw := bufio.NewWriter(w)
	writeRecord(bw, csvHeader)
	for _, r := range rows {
		writeRecord(bw, []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Email,
			r.Message,
			r.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteString("\r\n")
}
