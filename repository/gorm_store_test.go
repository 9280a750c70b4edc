package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Reservation{}, &models.Table{}))
	return db
}

func seedReservation(t *testing.T, s *GormStore, date, at string, status models.ReservationStatus) models.Reservation {
	t.Helper()
	r := models.Reservation{
		FirstName: "Ada", LastName: "Lovelace", MobileNumber: "(555) 010-1234",
		ReservationDate: date, ReservationTime: at, People: 2, ReservationStatus: status,
	}
	require.NoError(t, s.CreateReservation(context.Background(), &r))
	return r
}

func TestCreateAndFindReservation(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	r := models.Reservation{FirstName: "Ada", LastName: "Lovelace", MobileNumber: "555", ReservationDate: "2035-01-03", ReservationTime: "18:00:00", People: 2}
	require.NoError(t, s.CreateReservation(ctx, &r))
	assert.NotZero(t, r.ReservationID)
	assert.Equal(t, models.StatusBooked, r.ReservationStatus)

	found, err := s.FindReservation(ctx, r.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", found.LastName)

	_, err = s.FindReservation(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.LockReservation(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReservationsDayView(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	late := seedReservation(t, s, "2035-01-03", "20:00:00", models.StatusBooked)
	early := seedReservation(t, s, "2035-01-03", "11:15:00", models.StatusSeated)
	seedReservation(t, s, "2035-01-03", "12:00:00", models.StatusFinished)
	seedReservation(t, s, "2035-01-03", "13:00:00", models.StatusCancelled)
	seedReservation(t, s, "2035-01-04", "12:00:00", models.StatusBooked)

	list, err := s.ListReservations(ctx, DayView("2035-01-03"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ReservationID, list[0].ReservationID)
	assert.Equal(t, late.ReservationID, list[1].ReservationID)

	all, err := s.ListReservations(ctx, ReservationQuery{Date: "2035-01-03"})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	empty, err := s.ListReservations(ctx, DayView("2035-02-01"))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListReservationsMobileSearch(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	seedReservation(t, s, "2035-01-04", "12:00:00", models.StatusFinished)
	seedReservation(t, s, "2035-01-03", "12:00:00", models.StatusBooked)
	other := models.Reservation{FirstName: "Alan", LastName: "Turing", MobileNumber: "999-0000",
		ReservationDate: "2035-01-03", ReservationTime: "12:00:00", People: 1}
	require.NoError(t, s.CreateReservation(ctx, &other))

	list, err := s.ListReservations(ctx, MobileSearch("555-010"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2035-01-03", list[0].ReservationDate)
	assert.Equal(t, "2035-01-04", list[1].ReservationDate)

	assert.Equal(t, "5550101234", MobileSearch("(555) 010-1234").MobileNumber)
}

func TestSetReservationStatusIsConditional(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	r := seedReservation(t, s, "2035-01-03", "18:00:00", models.StatusBooked)

	require.NoError(t, s.SetReservationStatus(ctx, r.ReservationID, models.StatusBooked, models.StatusSeated))
	err := s.SetReservationStatus(ctx, r.ReservationID, models.StatusBooked, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrStaleState)

	found, err := s.FindReservation(ctx, r.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSeated, found.ReservationStatus)
}

func TestUpdateReservationDetailsOnlyWhileBooked(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	r := seedReservation(t, s, "2035-01-03", "18:00:00", models.StatusBooked)

	r.People = 6
	r.ReservationTime = "19:00:00"
	require.NoError(t, s.UpdateReservationDetails(ctx, r))

	found, err := s.FindReservation(ctx, r.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, 6, found.People)
	assert.Equal(t, "19:00:00", found.ReservationTime)
	assert.Equal(t, models.StatusBooked, found.ReservationStatus)

	require.NoError(t, s.SetReservationStatus(ctx, r.ReservationID, models.StatusBooked, models.StatusCancelled))
	assert.ErrorIs(t, s.UpdateReservationDetails(ctx, r), ErrStaleState)
}

func TestTablesOccupyAndRelease(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	b := models.Table{TableName: "Bar 1", Capacity: 1}
	a := models.Table{TableName: "A1", Capacity: 2}
	require.NoError(t, s.CreateTable(ctx, &b))
	require.NoError(t, s.CreateTable(ctx, &a))
	assert.Equal(t, models.TableFree, a.Status)

	list, err := s.ListTables(ctx, TableQuery{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A1", list[0].TableName)
	assert.Equal(t, "Bar 1", list[1].TableName)

	r := seedReservation(t, s, "2035-01-03", "18:00:00", models.StatusBooked)
	require.NoError(t, s.OccupyTable(ctx, a.TableID, r.ReservationID))
	assert.ErrorIs(t, s.OccupyTable(ctx, a.TableID, r.ReservationID), ErrStaleState)

	occupied, err := s.LockTable(ctx, a.TableID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, occupied.Status)
	require.NotNil(t, occupied.ReservationID)
	assert.Equal(t, r.ReservationID, *occupied.ReservationID)

	free, err := s.ListTables(ctx, TableQuery{Status: models.TableFree})
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "Bar 1", free[0].TableName)

	assert.ErrorIs(t, s.ReleaseTable(ctx, a.TableID, r.ReservationID+1), ErrStaleState)
	require.NoError(t, s.ReleaseTable(ctx, a.TableID, r.ReservationID))

	released, err := s.FindTable(ctx, a.TableID)
	require.NoError(t, err)
	assert.Equal(t, models.TableFree, released.Status)
	assert.Nil(t, released.ReservationID)

	_, err = s.FindTable(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountFloor(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"A1", "A2", "A3"} {
		table := models.Table{TableName: name, Capacity: 4}
		require.NoError(t, s.CreateTable(ctx, &table))
	}
	r := seedReservation(t, s, "2035-01-03", "18:00:00", models.StatusBooked)
	require.NoError(t, s.OccupyTable(ctx, 1, r.ReservationID))

	counts, err := s.CountFloor(ctx)
	require.NoError(t, err)
	assert.Equal(t, FloorCounts{Free: 2, Occupied: 1, Total: 3, SeatedCovers: 2}, counts)
}

func TestWithTxRollsBack(t *testing.T) {
	s := NewGormStore(setupTestDB(t))
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx Store) error {
		table := models.Table{TableName: "A1", Capacity: 2}
		require.NoError(t, tx.CreateTable(ctx, &table))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tables, err := s.ListTables(ctx, TableQuery{})
	require.NoError(t, err)
	assert.Empty(t, tables)
}
