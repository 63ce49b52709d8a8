package sink

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/AngelCh415/outreach-report/internal/models"
)

// Sheets appends one row per run to the configured worksheet. Re-runs append
// again; dedup is the sheet owner's policy, not ours.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

func NewSheets(ctx context.Context, credentialsFile, spreadsheetID, worksheet string) (*Sheets, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Sheets{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}, nil
}

func (s *Sheets) Name() string { return "sheets" }

func (s *Sheets) Deliver(ctx context.Context, rep models.DailyReport) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{rep.SheetRow()}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.worksheet+"!A:D", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: sheets: %v", models.ErrSink, err)
	}
	return nil
}
