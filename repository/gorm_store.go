package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if r.ReservationStatus == "" {
		r.ReservationStatus = models.StatusBooked
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (s *GormStore) FindReservation(ctx context.Context, id uint) (models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).Where("reservation_id = ?", id).First(&r).Error
	return r, translate(err, "find reservation")
}

// LockReservation reads the reservation with SELECT ... FOR UPDATE.
// SQLite has no row locks; its writer lock already serialises transactions.
func (s *GormStore) LockReservation(ctx context.Context, id uint) (models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reservation_id = ?", id).
		First(&r).Error
	return r, translate(err, "lock reservation")
}

func (s *GormStore) ListReservations(ctx context.Context, q ReservationQuery) ([]models.Reservation, error) {
	tx := s.db.WithContext(ctx).Model(&models.Reservation{})
	if q.Date != "" {
		tx = tx.Where("reservation_date = ?", q.Date)
	}
	if len(q.Statuses) > 0 {
		tx = tx.Where("reservation_status IN ?", q.Statuses)
	}
	if q.MobileNumber != "" {
		tx = tx.Where("REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(mobile_number, '(', ''), ')', ''), '-', ''), ' ', ''), '+', '') LIKE ?",
			"%"+q.MobileNumber+"%")
	}
	if q.Date == "" {
		tx = tx.Order("reservation_date ASC")
	}

	reservations := []models.Reservation{}
	if err := tx.Order("reservation_time ASC").Order("reservation_id ASC").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// UpdateReservationDetails rewrites the contact, party and schedule fields of a booked
// reservation. It never touches reservation_status.
func (s *GormStore) UpdateReservationDetails(ctx context.Context, r models.Reservation) error {
	res := s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("reservation_id = ? AND reservation_status = ?", r.ReservationID, models.StatusBooked).
		Updates(map[string]any{
			"first_name":       r.FirstName,
			"last_name":        r.LastName,
			"mobile_number":    r.MobileNumber,
			"people":           r.People,
			"reservation_date": r.ReservationDate,
			"reservation_time": r.ReservationTime,
		})
	return affectedOne(res, "update reservation")
}

// SetReservationStatus moves a reservation from one status to another. It fails with
// ErrStaleState when the reservation is no longer in `from`.
func (s *GormStore) SetReservationStatus(ctx context.Context, id uint, from, to models.ReservationStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("reservation_id = ? AND reservation_status = ?", id, from).
		Update("reservation_status", to)
	return affectedOne(res, "set reservation status")
}

func (s *GormStore) CreateTable(ctx context.Context, t *models.Table) error {
	if t.Status == "" {
		t.Status = models.TableFree
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (s *GormStore) FindTable(ctx context.Context, id uint) (models.Table, error) {
	var t models.Table
	err := s.db.WithContext(ctx).Where("table_id = ?", id).First(&t).Error
	return t, translate(err, "find table")
}

func (s *GormStore) LockTable(ctx context.Context, id uint) (models.Table, error) {
	var t models.Table
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("table_id = ?", id).
		First(&t).Error
	return t, translate(err, "lock table")
}

func (s *GormStore) ListTables(ctx context.Context, q TableQuery) ([]models.Table, error) {
	tx := s.db.WithContext(ctx).Model(&models.Table{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	tables := []models.Table{}
	if err := tx.Order("table_name ASC").Order("table_id ASC").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// OccupyTable is a compare-and-set from Free to Occupied.
func (s *GormStore) OccupyTable(ctx context.Context, tableID, reservationID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("table_id = ? AND status = ?", tableID, models.TableFree).
		Updates(map[string]any{
			"status":         models.TableOccupied,
			"reservation_id": reservationID,
		})
	return affectedOne(res, "occupy table")
}

// ReleaseTable is a compare-and-set from Occupied by reservationID back to Free.
func (s *GormStore) ReleaseTable(ctx context.Context, tableID, reservationID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("table_id = ? AND status = ? AND reservation_id = ?", tableID, models.TableOccupied, reservationID).
		Updates(map[string]any{
			"status":         models.TableFree,
			"reservation_id": gorm.Expr("NULL"),
		})
	return affectedOne(res, "release table")
}

func (s *GormStore) CountFloor(ctx context.Context) (FloorCounts, error) {
	var counts FloorCounts
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Table{}).Where("status = ?", models.TableFree).Count(&counts.Free).Error; err != nil {
		return counts, fmt.Errorf("count free tables: %w", err)
	}
	if err := db.Model(&models.Table{}).Where("status = ?", models.TableOccupied).Count(&counts.Occupied).Error; err != nil {
		return counts, fmt.Errorf("count occupied tables: %w", err)
	}
	counts.Total = counts.Free + counts.Occupied

	err := db.Model(&models.Table{}).
		Joins("JOIN reservations ON reservations.reservation_id = tables.reservation_id").
		Where("tables.status = ?", models.TableOccupied).
		Select("COALESCE(SUM(reservations.people), 0)").
		Scan(&counts.SeatedCovers).Error
	if err != nil {
		return counts, fmt.Errorf("count seated covers: %w", err)
	}
	return counts, nil
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func affectedOne(res *gorm.DB, op string) error {
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected != 1 {
		return ErrStaleState
	}
	return nil
}
