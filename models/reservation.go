package models

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Reservation is a party booked for a date and time.
// ReservationDate is stored as YYYY-MM-DD and ReservationTime as HH:MM:SS.
type Reservation struct {
	ReservationID     uint              `gorm:"primaryKey;column:reservation_id" json:"reservation_id"`
	FirstName         string            `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName          string            `gorm:"type:varchar(100);not null" json:"last_name"`
	MobileNumber      string            `gorm:"type:varchar(30);not null;index" json:"mobile_number"`
	ReservationDate   string            `gorm:"type:varchar(10);not null;index" json:"reservation_date"`
	ReservationTime   string            `gorm:"type:varchar(8);not null" json:"reservation_time"`
	People            int               `gorm:"not null" json:"people"`
	ReservationStatus ReservationStatus `gorm:"type:varchar(20);not null;default:'booked';index" json:"reservation_status"`
	CreatedAt         time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null" json:"updated_at"`
}

// At combines the stored date and time in loc.
func (r Reservation) At(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.ReservationDate+" "+r.ReservationTime, loc)
}

// FullName is used in exports and event payloads.
func (r Reservation) FullName() string {
	return r.FirstName + " " + r.LastName
}
