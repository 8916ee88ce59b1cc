package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shermerautomation/hems-scheduler/internal/repository"
)

// ExportService сериализует выборку журнала в плоскую таблицу.
type ExportService struct {
	ledger *LedgerService
}

func NewExportService(ledger *LedgerService) *ExportService {
	return &ExportService{ledger: ledger}
}

var exportHeader = []string{
	"Quarter",
	"Meeting Date",
	"Week",
	"Time Slot",
	"Speaker Name",
	"Email",
	"Phone",
	"Specialty",
	"Topic Title",
	"Registration Date",
	"Status",
}

// WriteCSV пишет брони по фильтру в w: одна строка на бронь,
// порядок — неделя, затем окно.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, f repository.BookingFilter) error {
	bookings, err := s.ledger.Query(ctx, f)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, b := range bookings {
		var quarter, meetingDate, week, window string
		if b.Slot != nil {
			week = strconv.Itoa(b.Slot.Week)
			window = b.Slot.TimeWindow.Label()
			if b.Slot.Quarter != nil {
				quarter = fmt.Sprintf("%d Q%d", b.Slot.Quarter.Year, b.Slot.Quarter.Number)
				meetingDate = time.Time(b.Slot.Quarter.MeetingDate).Format("2006-01-02")
			}
		}
		row := []string{
			quarter,
			meetingDate,
			week,
			window,
			b.SpeakerName,
			b.SpeakerEmail,
			b.SpeakerPhone,
			b.Specialty,
			b.TopicTitle,
			b.CreatedAt.UTC().Format(time.RFC3339),
			string(b.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
