package model

import (
	"github.com/google/uuid"
)

const (
	DepartmentStatusActive   = "active"
	DepartmentStatusInactive = "inactive"
)

// Department is a reference entity; its doctor roster is a reverse lookup of
// users whose department matches, resolved at read time.
type Department struct {
	Base
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	HeadDoctorID *uuid.UUID `json:"head_doctor_id,omitempty" db:"head_doctor_id"`
	Status       string     `json:"status" db:"status"`
}

type CreateDepartmentRequest struct {
	Name         string     `json:"name" binding:"required,max=120"`
	Description  string     `json:"description" binding:"max=2000"`
	HeadDoctorID *uuid.UUID `json:"head_doctor_id"`
}

type UpdateDepartmentRequest struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	HeadDoctorID *uuid.UUID `json:"head_doctor_id"`
	Status       *string    `json:"status" binding:"omitempty,oneof=active inactive"`
}

const (
	RoomStatusAvailable   = "available"
	RoomStatusMaintenance = "maintenance"
	RoomStatusClosed      = "closed"
)

// Room tracks occupancy against capacity.
type Room struct {
	Base
	RoomNumber string `json:"room_number" db:"room_number"`
	Type       string `json:"type" db:"type"`
	Capacity   int    `json:"capacity" db:"capacity"`
	Occupancy  int    `json:"occupancy" db:"occupancy"`
	Status     string `json:"status" db:"status"`
}

// Available derives the availability flag: occupancy below capacity and the
// room itself open for use.
func (r *Room) Available() bool {
	return r.Occupancy < r.Capacity && r.Status == RoomStatusAvailable
}

type CreateRoomRequest struct {
	RoomNumber string `json:"room_number" binding:"required,max=20"`
	Type       string `json:"type" binding:"required,max=60"`
	Capacity   int    `json:"capacity" binding:"required,min=1"`
}

type UpdateRoomRequest struct {
	Type     *string `json:"type"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
	Status   *string `json:"status" binding:"omitempty,oneof=available maintenance closed"`
}

const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
)

// Service is a bookable hospital service offered by a department.
type Service struct {
	Base
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty" db:"department_id"`
	Price        float64    `json:"price" db:"price"`
	Status       string     `json:"status" db:"status"`
	Available    bool       `json:"available" db:"available"`
}

type CreateServiceRequest struct {
	Name         string     `json:"name" binding:"required,max=120"`
	Description  string     `json:"description" binding:"max=2000"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Price        float64    `json:"price" binding:"min=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active inactive"`
	Available   *bool    `json:"available"`
}
