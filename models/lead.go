package models

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/grupoavance/lending_backend/config"
	"bitbucket.org/grupoavance/lending_backend/utils"
	"gorm.io/gorm"
)

// Lead is the field employee responsible for a locality's collections.
type Lead struct {
	ID        int       `gorm:"primary_key" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	RouteId   int       `gorm:"index" json:"route_id"`
	Addresses []Address `gorm:"foreignKey:LeadId" json:"addresses"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Address struct {
	ID         int       `gorm:"primary_key" json:"id"`
	LeadId     int       `gorm:"index;not null" json:"lead_id"`
	LocationId int       `gorm:"index" json:"location_id"`
	Street     string    `gorm:"size:255" json:"street"`
	Location   *Location `json:"location"`
}

type Location struct {
	ID      int    `gorm:"primary_key" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	RouteId int    `gorm:"index" json:"route_id"`
}

func (obj Lead) GetId() int {
	return obj.ID
}

func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// FirstLocationName returns the location of the lead's first address, or ""
// when the lead has no located address.
func (l *Lead) FirstLocationName() string {
	if len(l.Addresses) == 0 {
		return ""
	}
	first := l.Addresses[0]
	if first.Location == nil {
		return ""
	}
	return first.Location.Name
}

// LeadsByIds fetches all requested leads with their addresses and locations.
// One query per reference type: leads, addresses, locations.
func LeadsByIds(ctx context.Context, ids []int) (map[int]Lead, error) {
	result := make(map[int]Lead, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	db := config.GetDB()

	var leads []Lead
	err := db.WithContext(ctx).
		Preload("Addresses", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Addresses.Location").
		Where("id IN ?", utils.UniqueSlice(ids)).
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	for _, lead := range leads {
		result[lead.ID] = lead
	}
	return result, nil
}
