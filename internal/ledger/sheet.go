package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// headerRow is the fixed ledger schema, columns A through G.
var headerRow = []interface{}{
	"Name", "Phone Number", "Email", "Latest Question",
	"Last Contact Date", "Last Contact Time", "Total Interactions",
}

// Credentials holds the service account fields assembled from the
// environment. PrivateKey may carry literal \n sequences.
type Credentials struct {
	ProjectID    string
	PrivateKeyID string
	PrivateKey   string
	ClientEmail  string
	ClientID     string
}

// Client reads and writes the customer ledger spreadsheet.
type Client struct {
	svc     *sheets.Service
	sheetID string
	logger  *slog.Logger
}

func NewClient(ctx context.Context, creds Credentials, sheetID string, logger *slog.Logger) (*Client, error) {
	conf := &jwt.Config{
		Email:        creds.ClientEmail,
		PrivateKey:   []byte(strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")),
		PrivateKeyID: creds.PrivateKeyID,
		TokenURL:     "https://oauth2.googleapis.com/token",
		Scopes: []string{
			"https://www.googleapis.com/auth/spreadsheets",
		},
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:     svc,
		sheetID: sheetID,
		logger:  logger,
	}, nil
}

// EnsureHeaders writes the header row when row 1 is still empty.
func (c *Client) EnsureHeaders(ctx context.Context) error {
	resp, err := c.svc.Spreadsheets.Values.Get(c.sheetID, "A1:G1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if len(resp.Values) > 0 {
		return nil
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{headerRow}}
	_, err = c.svc.Spreadsheets.Values.Update(c.sheetID, "A1:G1", vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	c.logger.Info("Headers added to ledger sheet")
	return nil
}

// RecordInteraction upserts a customer row keyed by phone number. An existing
// row is overwritten with the new contact details and its interaction count
// incremented; otherwise a fresh row is appended with a count of 1.
func (c *Client) RecordInteraction(ctx context.Context, name, phone, email, question string) error {
	now := time.Now()
	date := now.Format("2006-01-02")
	clock := now.Format("15:04:05")

	resp, err := c.svc.Spreadsheets.Values.Get(c.sheetID, "A:G").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	for i, row := range resp.Values {
		if i == 0 || cellString(row, 1) != phone {
			continue
		}

		count, _ := strconv.Atoi(cellString(row, 6))
		rowNum := i + 1

		vr := &sheets.ValueRange{Values: [][]interface{}{{
			name, phone, email, question, date, clock, strconv.Itoa(count + 1),
		}}}
		_, err = c.svc.Spreadsheets.Values.Update(c.sheetID, fmt.Sprintf("A%d:G%d", rowNum, rowNum), vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update customer row: %w", err)
		}

		c.logger.Info("Updated customer row", "phone", phone, "interactions", count+1)
		return nil
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{{
		name, phone, email, question, date, clock, "1",
	}}}
	_, err = c.svc.Spreadsheets.Values.Append(c.sheetID, "A:G", vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append customer row: %w", err)
	}

	c.logger.Info("Appended customer row", "phone", phone)
	return nil
}

func cellString(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}
