package models

// Table is a dining table on the floor. ReservationID is set only while Status is Occupied.
type Table struct {
	TableID       uint         `gorm:"primaryKey;column:table_id" json:"table_id"`
	TableName     string       `gorm:"type:varchar(100);not null;index" json:"table_name"`
	Capacity      int          `gorm:"not null" json:"capacity"`
	ReservationID *uint        `gorm:"column:reservation_id;index" json:"reservation_id"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID;references:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Status        TableStatus  `gorm:"type:varchar(20);not null;default:'Free'" json:"status"`
}

// IsFree reports whether the table can take a new party.
func (t Table) IsFree() bool {
	return t.Status == TableFree
}

// Seated returns a copy of the table holding the given reservation.
func (t Table) Seated(reservationID uint) Table {
	id := reservationID
	t.Status = TableOccupied
	t.ReservationID = &id
	return t
}

// Cleared returns a copy of the table with its occupancy released.
func (t Table) Cleared() Table {
	t.Status = TableFree
	t.ReservationID = nil
	return t
}
