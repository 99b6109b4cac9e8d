// internal/models/driver_profile.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type DriverProfile struct {
	gorm.Model
	UserID uint  `json:"user_id" gorm:"uniqueIndex"` // 1:1 with a DRIVER user
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// PFNumber is the stable business key used for reactivation lookups.
	PFNumber          string    `json:"pf_number" gorm:"column:pf_number;unique;not null"`
	DriverName        string    `json:"driver_name"`
	Designation       string    `json:"designation"`
	BasicPay          float64   `json:"basic_pay"`
	DateOfAppointment time.Time `json:"date_of_appointment"`
	DateOfEntry       time.Time `json:"date_of_entry"`

	DepotID  uint   `json:"depot_id" gorm:"index"`
	Depot    *Depot `gorm:"foreignKey:DepotID" json:"depot,omitempty"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	Compliances []DriverCompliance `gorm:"foreignKey:DriverProfileID" json:"compliances,omitempty"`
	RouteAuths  []DriverRouteAuth  `gorm:"foreignKey:DriverProfileID" json:"route_auths,omitempty"`
}
