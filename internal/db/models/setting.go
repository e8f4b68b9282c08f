// Package models contains database model definitions.
package models

import "time"

// SettingNameMaxLen is the width of the setting_name column, in characters.
const SettingNameMaxLen = 128

// Setting represents one tunable numeric parameter of a sensor or actuator.
// The pair (SensorType, Name) is unique.
type Setting struct {
	ID         uint64    `gorm:"primaryKey"                                                         json:"id"`
	SensorType string    `gorm:"column:sensor_type;size:64;not null;uniqueIndex:idx_sensor_setting"  json:"sensor_type"`
	Name       string    `gorm:"column:setting_name;size:128;not null;uniqueIndex:idx_sensor_setting" json:"setting_name"`
	Value      float64   `gorm:"column:setting_value;not null"                                      json:"setting_value"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"                                         json:"updated_at"`
}

// TableName returns the table of sensor settings.
func (Setting) TableName() string {
	return "tb_sensor_settings"
}
