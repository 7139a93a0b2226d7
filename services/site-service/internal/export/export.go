// Package export renders stored submissions into an xlsx workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/storage"
	"github.com/xuri/excelize/v2"
)

const (
	SheetAppointments = "Appointments"
	SheetContacts     = "Contacts"
)

var (
	appointmentHeaders = []string{"ID", "Provider", "Client", "Email", "Phone", "Date", "Time", "Status", "Notes", "Created At"}
	contactHeaders     = []string{"ID", "Name", "Email", "Subject", "Message", "Created At"}
)

// Source is the read side of the store the workbook is built from.
type Source interface {
	ListProviders(ctx context.Context) ([]model.Provider, error)
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	ListContacts(ctx context.Context) ([]model.Contact, error)
}

var _ Source = storage.Store(nil)

// Write builds the workbook from src and writes it to w.
func Write(ctx context.Context, src Source, w io.Writer) error {
	f, err := Build(ctx, src)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Build returns a workbook with one sheet for appointments and one for
// contacts. Appointments show the provider name when the provider exists.
func Build(ctx context.Context, src Source) (*excelize.File, error) {
	providers, err := src.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing providers: %w", err)
	}
	appointments, err := src.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	contacts, err := src.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	names := make(map[string]string, len(providers))
	for _, p := range providers {
		names[p.ID] = p.Name
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetAppointments); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetContacts); err != nil {
		f.Close()
		return nil, fmt.Errorf("creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating style: %w", err)
	}

	appointmentRows := make([][]any, 0, len(appointments))
	for _, a := range appointments {
		provider := names[a.ProviderID]
		if provider == "" {
			provider = a.ProviderID
		}
		notes := ""
		if a.Notes != nil {
			notes = *a.Notes
		}
		appointmentRows = append(appointmentRows, []any{
			a.ID, provider, a.ClientName, a.ClientEmail, a.ClientPhone,
			a.AppointmentDate, a.AppointmentTime, a.Status, notes, formatTime(a.CreatedAt),
		})
	}
	if err := writeSheet(f, SheetAppointments, appointmentHeaders, appointmentRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	contactRows := make([][]any, 0, len(contacts))
	for _, c := range contacts {
		contactRows = append(contactRows, []any{c.ID, c.Name, c.Email, c.Subject, c.Message, formatTime(c.CreatedAt)})
	}
	if err := writeSheet(f, SheetContacts, contactHeaders, contactRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
		return fmt.Errorf("sizing %s columns: %w", sheet, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
