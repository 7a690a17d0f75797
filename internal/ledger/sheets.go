package ledger

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// Worksheet layout carried over from the original tracker spreadsheet.
const (
	suppliesSheet    = "first_aid_supplies"
	limitsSheet      = "first_aid_operational_limits"
	inventoriesSheet = "first_aid_inventories"
	auditsSheet      = "first_aid_audits"
	metaSheet        = "ledger_meta"

	expirationLayout = "2006-01-02"
	timestampLayout  = "2006-01-02 15:04:05"
)

// SheetsStore keeps the ledger in a Google Sheets spreadsheet, one worksheet
// per table. The supplies version lives in a counter cell on the meta sheet
// and is checked before every commit. Sheets has no transactions, so the
// check is best-effort; postgres is the authoritative backend for
// concurrent operators.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsStore(service *sheets.Service, spreadsheetID string) *SheetsStore {
	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
	}
}

// NewSheetsService builds an authenticated sheets client from
// GOOGLE_SHEETS_CREDENTIALS_JSON, falling back to a local credentials file
// for development.
func NewSheetsService(ctx context.Context) (*sheets.Service, error) {
	credentialsJSON := []byte(os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON"))
	if len(credentialsJSON) == 0 {
		b, err := os.ReadFile("configs/google-credentials.json")
		if err != nil {
			return nil, fmt.Errorf("unable to read google credentials file: %w", err)
		}
		credentialsJSON = b
	}

	credentials, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to load google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	service, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}

	return service, nil
}

func (s *SheetsStore) Supplies(ctx context.Context) (*SupplySnapshot, error) {
	version, err := s.readVersion(ctx)
	if err != nil {
		return nil, err
	}

	values, err := s.readSheet(ctx, suppliesSheet+"!A:H")
	if err != nil {
		return nil, err
	}

	snapshot := &SupplySnapshot{Version: version}
	if len(values) < 2 {
		return snapshot, nil
	}

	headers := mapHeaders(values[0])
	for i := 1; i < len(values); i++ {
		lot, err := parseLotRow(values[i], headers, i+1)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", suppliesSheet, i+1, err)
		}
		snapshot.Lots = append(snapshot.Lots, lot)
	}

	return snapshot, nil
}

func (s *SheetsStore) Limits(ctx context.Context) ([]models.OperationalLimit, error) {
	values, err := s.readSheet(ctx, limitsSheet+"!A:E")
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, nil
	}

	headers := mapHeaders(values[0])
	var limits []models.OperationalLimit
	for i := 1; i < len(values); i++ {
		row := values[i]
		limit := models.OperationalLimit{
			Inventory: cell(row, headers, "inventory"),
			Item:      cell(row, headers, "item"),
			Location:  cell(row, headers, "location"),
		}
		if limit.MinQuantity, err = cellInt(row, headers, "min_quantity"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", limitsSheet, i+1, err)
		}
		if limit.MaxQuantity, err = cellInt(row, headers, "max_quantity"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", limitsSheet, i+1, err)
		}
		limits = append(limits, limit)
	}

	return limits, nil
}

func (s *SheetsStore) Inventories(ctx context.Context) ([]models.Inventory, error) {
	values, err := s.readSheet(ctx, inventoriesSheet+"!A:B")
	if err != nil {
		return nil, err
	}

	var inventories []models.Inventory
	for i := 1; i < len(values); i++ {
		row := values[i]
		if len(row) == 0 {
			continue
		}
		inventory := models.Inventory{Name: toString(row[0])}
		if len(row) > 1 {
			inventory.Icon = toString(row[1])
		}
		inventories = append(inventories, inventory)
	}

	return inventories, nil
}

func (s *SheetsStore) Audits(ctx context.Context) ([]models.AuditRecord, error) {
	values, err := s.readSheet(ctx, auditsSheet+"!A:G")
	if err != nil {
		return nil, err
	}

	var records []models.AuditRecord
	for i := 1; i < len(values); i++ {
		row := values[i]
		record := models.AuditRecord{
			ID:        i,
			Inventory: toString(indexOrEmpty(row, 0)),
			Location:  toString(indexOrEmpty(row, 1)),
			Item:      toString(indexOrEmpty(row, 2)),
			Present:   toString(indexOrEmpty(row, 4)) == "TRUE",
			AuditedBy: toString(indexOrEmpty(row, 6)),
		}
		if record.Expiration, err = parseOptionalDate(toString(indexOrEmpty(row, 3)), expirationLayout); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", auditsSheet, i+1, err)
		}
		if auditedAt, err := parseOptionalDate(toString(indexOrEmpty(row, 5)), timestampLayout); err == nil && auditedAt != nil {
			record.AuditedAt = *auditedAt
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *SheetsStore) Commit(ctx context.Context, update Update) (Version, error) {
	current, err := s.readVersion(ctx)
	if err != nil {
		return 0, err
	}

	if update.Empty() {
		return current, nil
	}

	if current != update.BaseVersion {
		return 0, &custom_error.ConcurrentModificationError{
			Table:    SuppliesTable,
			Expected: int64(update.BaseVersion),
			Actual:   int64(current),
		}
	}

	// Row number doubles as the lot ID, so removals write straight to the
	// removal columns of their row.
	for _, removal := range update.Removals {
		removalRange := fmt.Sprintf("%s!G%d:H%d", suppliesSheet, removal.LotID+1, removal.LotID+1)
		values := &sheets.ValueRange{Values: [][]interface{}{{
			removal.RemovedAt.Format(timestampLayout),
			removal.RemovedBy,
		}}}
		if _, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, removalRange, values).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return 0, fmt.Errorf("unable to mark lot %d removed: %w", removal.LotID, err)
		}
	}

	if len(update.AddLots) > 0 {
		rows := make([][]interface{}, 0, len(update.AddLots))
		for _, lot := range update.AddLots {
			rows = append(rows, []interface{}{
				lot.Inventory, lot.Item, lot.Location,
				formatOptionalDate(lot.Expiration, expirationLayout),
				lot.AddedAt.Format(timestampLayout), lot.AddedBy, "", "",
			})
		}
		if _, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, suppliesSheet+"!A:H",
			&sheets.ValueRange{Values: rows}).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return 0, fmt.Errorf("unable to append supply lots: %w", err)
		}
	}

	if len(update.Audits) > 0 {
		rows := make([][]interface{}, 0, len(update.Audits))
		for _, record := range update.Audits {
			present := "FALSE"
			if record.Present {
				present = "TRUE"
			}
			rows = append(rows, []interface{}{
				record.Inventory, record.Location, record.Item,
				formatOptionalDate(record.Expiration, expirationLayout),
				present, record.AuditedAt.Format(timestampLayout), record.AuditedBy,
			})
		}
		if _, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, auditsSheet+"!A:G",
			&sheets.ValueRange{Values: rows}).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return 0, fmt.Errorf("unable to append audit records: %w", err)
		}
	}

	newVersion := current + 1
	versionCell := &sheets.ValueRange{Values: [][]interface{}{{strconv.FormatInt(int64(newVersion), 10)}}}
	if _, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, metaSheet+"!B1", versionCell).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return 0, fmt.Errorf("unable to update ledger version: %w", err)
	}

	return newVersion, nil
}

func (s *SheetsStore) readVersion(ctx context.Context) (Version, error) {
	values, err := s.readSheet(ctx, metaSheet+"!B1")
	if err != nil {
		return 0, err
	}
	if len(values) == 0 || len(values[0]) == 0 {
		return 0, nil
	}

	version, err := strconv.ParseInt(toString(values[0][0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unreadable ledger version cell: %w", err)
	}
	return Version(version), nil
}

func (s *SheetsStore) readSheet(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read range %s: %w", readRange, err)
	}
	return resp.Values, nil
}

// mapHeaders translates the spreadsheet's header row into field names, so
// column order in the sheet stays flexible.
func mapHeaders(headers []interface{}) map[string]int {
	headerMap := make(map[string]int)
	for i, header := range headers {
		switch toString(header) {
		case "Inventory":
			headerMap["inventory"] = i
		case "Item":
			headerMap["item"] = i
		case "Location":
			headerMap["location"] = i
		case "Expiration Date":
			headerMap["expiration"] = i
		case "Date Added":
			headerMap["added_at"] = i
		case "Added By":
			headerMap["added_by"] = i
		case "Date Removed":
			headerMap["removed_at"] = i
		case "Removed By":
			headerMap["removed_by"] = i
		case "Min. Quantity":
			headerMap["min_quantity"] = i
		case "Max. Quantity":
			headerMap["max_quantity"] = i
		}
	}
	return headerMap
}

func parseLotRow(row []interface{}, headers map[string]int, rowNumber int) (models.SupplyLot, error) {
	lot := models.SupplyLot{
		ID:        rowNumber - 1, // data rows start at sheet row 2, lot IDs at 1
		Inventory: cell(row, headers, "inventory"),
		Item:      cell(row, headers, "item"),
		Location:  cell(row, headers, "location"),
		AddedBy:   cell(row, headers, "added_by"),
	}

	expiration, err := parseOptionalDate(cell(row, headers, "expiration"), expirationLayout)
	if err != nil {
		return lot, err
	}
	lot.Expiration = expiration

	if addedAt, err := parseOptionalDate(cell(row, headers, "added_at"), timestampLayout); err == nil && addedAt != nil {
		lot.AddedAt = *addedAt
	}

	removedAt, err := parseOptionalDate(cell(row, headers, "removed_at"), timestampLayout)
	if err != nil {
		return lot, err
	}
	if removedAt != nil {
		removedBy := cell(row, headers, "removed_by")
		lot.RemovedAt = removedAt
		lot.RemovedBy = &removedBy
	}

	return lot, nil
}

func cell(row []interface{}, headers map[string]int, field string) string {
	i, ok := headers[field]
	if !ok || i >= len(row) {
		return ""
	}
	return toString(row[i])
}

func cellInt(row []interface{}, headers map[string]int, field string) (int, error) {
	raw := cell(row, headers, field)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", field, err)
	}
	return value, nil
}

func parseOptionalDate(raw string, layout string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(layout, raw)
	if err != nil {
		return nil, fmt.Errorf("unparseable date %q: %w", raw, err)
	}
	return &parsed, nil
}

func formatOptionalDate(date *time.Time, layout string) string {
	if date == nil {
		return ""
	}
	return date.Format(layout)
}

func indexOrEmpty(row []interface{}, i int) interface{} {
	if i >= len(row) {
		return nil
	}
	return row[i]
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
