package services

import (
	"encoding/csv"
	"io"
	"strconv"

	"erp-import-platform/internal/models"
)

// WriteRowLogsCSV streams a session's row logs as CSV for download
func WriteRowLogsCSV(w io.Writer, logs []*models.ImportRowLog) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Row", "Key", "Status", "Operation", "Error"}); err != nil {
		return err
	}
	for _, log := range logs {
		record := []string{
			strconv.Itoa(log.RowNumber),
			log.KeyValue,
			string(log.Status),
			string(log.Operation),
			log.ErrorMessage,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
