package model

import "gorm.io/gorm"

// Department is an entry of the organisation's department roster.
type Department struct {
	gorm.Model
	Name           string `json:"name" gorm:"uniqueIndex;size:128;not null"`
	OfficeLocation string `json:"office_location" gorm:"size:128"`
}
