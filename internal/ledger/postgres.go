package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/lib/pq"

	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// PostgresStore persists the ledger in postgres. The supplies version lives
// in ledger_versions and is locked FOR UPDATE inside the commit transaction,
// so two writers racing from the same snapshot serialize and the second one
// fails the version check.
type PostgresStore struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

func WithTransaction(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	rawTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	tx := goqu.NewTx("postgres", rawTx)
	defer func() {
		if p := recover(); p != nil {
			rawTx.Rollback()
			panic(p)
		} else if err != nil {
			rawTx.Rollback()
		} else {
			err = rawTx.Commit()
		}
	}()

	err = fn(tx)
	return
}

func (s *PostgresStore) Supplies(ctx context.Context) (*SupplySnapshot, error) {
	var snapshot SupplySnapshot

	// Version and rows must come from the same transaction or the snapshot
	// token could tag rows it never saw.
	err := WithTransaction(s.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		version, err := readVersion(ctx, tx, false)
		if err != nil {
			return err
		}
		snapshot.Version = version

		query := tx.Select("id", "inventory", "item", "location", "expiration",
			"added_at", "added_by", "removed_at", "removed_by").
			From(SuppliesTable).
			Order(goqu.C("id").Asc())
		if err := query.Executor().ScanStructsContext(ctx, &snapshot.Lots); err != nil {
			return fmt.Errorf("unable to read supply lots: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (s *PostgresStore) Limits(ctx context.Context) ([]models.OperationalLimit, error) {
	var limits []models.OperationalLimit
	query := s.GoquDBWrapper.Select("inventory", "item", "location", "min_quantity", "max_quantity").
		From("operational_limits").
		Order(goqu.C("inventory").Asc(), goqu.C("item").Asc(), goqu.C("location").Asc())
	if err := query.Executor().ScanStructsContext(ctx, &limits); err != nil {
		return nil, fmt.Errorf("unable to read operational limits: %w", err)
	}
	return limits, nil
}

func (s *PostgresStore) Inventories(ctx context.Context) ([]models.Inventory, error) {
	var inventories []models.Inventory
	query := s.GoquDBWrapper.Select("name", "icon").From("inventories").Order(goqu.C("name").Asc())
	if err := query.Executor().ScanStructsContext(ctx, &inventories); err != nil {
		return nil, fmt.Errorf("unable to read inventories: %w", err)
	}
	return inventories, nil
}

func (s *PostgresStore) Audits(ctx context.Context) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	query := s.GoquDBWrapper.Select("id", "inventory", "location", "item", "expiration",
		"present", "audited_at", "audited_by").
		From("audit_records").
		Order(goqu.C("id").Asc())
	if err := query.Executor().ScanStructsContext(ctx, &records); err != nil {
		return nil, fmt.Errorf("unable to read audit records: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Commit(ctx context.Context, update Update) (Version, error) {
	if update.Empty() {
		snapshot, err := s.Supplies(ctx)
		if err != nil {
			return 0, err
		}
		return snapshot.Version, nil
	}

	var newVersion Version
	err := WithTransaction(s.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		current, err := readVersion(ctx, tx, true)
		if err != nil {
			return err
		}

		if current != update.BaseVersion {
			return &custom_error.ConcurrentModificationError{
				Table:    SuppliesTable,
				Expected: int64(update.BaseVersion),
				Actual:   int64(current),
			}
		}

		if err := insertLots(ctx, tx, update.AddLots); err != nil {
			return err
		}
		if err := markRemoved(ctx, tx, update.Removals); err != nil {
			return err
		}
		if err := appendAudits(ctx, tx, update.Audits); err != nil {
			return err
		}

		bump := tx.Update("ledger_versions").
			Set(goqu.Record{"version": goqu.L("version + 1")}).
			Where(goqu.Ex{"table_name": SuppliesTable})
		if _, err := bump.Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to bump ledger version: %w", err)
		}

		newVersion = current + 1
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newVersion, nil
}

func readVersion(ctx context.Context, tx *goqu.TxDatabase, forUpdate bool) (Version, error) {
	query := tx.Select("version").From("ledger_versions").Where(goqu.Ex{"table_name": SuppliesTable})
	if forUpdate {
		query = query.ForUpdate(exp.Wait)
	}

	var version int64
	found, err := query.Executor().ScanValContext(ctx, &version)
	if err != nil {
		return 0, fmt.Errorf("unable to read ledger version: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("ledger version row for %s is missing; run migrations", SuppliesTable)
	}
	return Version(version), nil
}

func insertLots(ctx context.Context, tx *goqu.TxDatabase, lots []models.SupplyLot) error {
	for _, lot := range lots {
		query := tx.Insert(SuppliesTable).Rows(goqu.Record{
			"inventory":  lot.Inventory,
			"item":       lot.Item,
			"location":   lot.Location,
			"expiration": lot.Expiration,
			"added_at":   lot.AddedAt,
			"added_by":   lot.AddedBy,
		})
		if _, err := query.Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to insert supply lot %s/%s: %w", lot.Inventory, lot.Item, err)
		}
	}
	return nil
}

func markRemoved(ctx context.Context, tx *goqu.TxDatabase, removals []Removal) error {
	for _, removal := range removals {
		query := tx.Update(SuppliesTable).
			Set(goqu.Record{
				"removed_at": removal.RemovedAt,
				"removed_by": removal.RemovedBy,
			}).
			Where(goqu.Ex{"id": removal.LotID}).
			Where(goqu.C("removed_at").IsNull()) // removal markers are write-once

		result, err := query.Executor().ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark lot %d removed: %w", removal.LotID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to mark lot %d removed: %w", removal.LotID, err)
		}
		if affected != 1 {
			return fmt.Errorf("cannot remove lot %d: not an active lot", removal.LotID)
		}
	}
	return nil
}

func appendAudits(ctx context.Context, tx *goqu.TxDatabase, records []models.AuditRecord) error {
	for _, record := range records {
		query := tx.Insert("audit_records").Rows(goqu.Record{
			"inventory":  record.Inventory,
			"location":   record.Location,
			"item":       record.Item,
			"expiration": record.Expiration,
			"present":    record.Present,
			"audited_at": record.AuditedAt,
			"audited_by": record.AuditedBy,
		})
		if _, err := query.Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to append audit record for %s/%s: %w", record.Inventory, record.Item, err)
		}
	}
	return nil
}
