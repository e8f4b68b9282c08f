package models

// Reading holds the columns shared by every telemetry table.
// Timestamp is stored as sent by the sensor.
type Reading struct {
	ID        uint64  `gorm:"primaryKey"        json:"id"`
	Timestamp string  `gorm:"size:64;index"     json:"timestamp"`
	SensorID  string  `gorm:"size:64"           json:"sensor_id"`
	Location  string  `gorm:"size:128"          json:"location"`
	Voltage   float64 `gorm:"column:voltage"    json:"voltage"`
}

// Measurement is implemented by every telemetry table model.
type Measurement interface {
	TableName() string
	Base() *Reading
	SetValue(v float64)
}

// PHReading is a row of tb_ph.
type PHReading struct {
	Reading
	PHValue float64 `gorm:"column:ph_value" json:"pH_value"`
}

// WaterLevelReading is a row of tb_water_level.
type WaterLevelReading struct {
	Reading
	WaterLevel float64 `gorm:"column:water_level" json:"water_level"`
}

// WaterTemperatureReading is a row of tb_water_temperature.
type WaterTemperatureReading struct {
	Reading
	Temperature float64 `gorm:"column:temperature" json:"temperature"`
}

// IlluminanceReading is a row of tb_illuminance.
type IlluminanceReading struct {
	Reading
	Illuminance float64 `gorm:"column:illuminance" json:"illuminance"`
}

// ConductivityReading is a row of tb_conductivity.
type ConductivityReading struct {
	Reading
	Conductivity float64 `gorm:"column:conductivity" json:"conductivity"`
}

func (PHReading) TableName() string               { return "tb_ph" }
func (WaterLevelReading) TableName() string       { return "tb_water_level" }
func (WaterTemperatureReading) TableName() string { return "tb_water_temperature" }
func (IlluminanceReading) TableName() string      { return "tb_illuminance" }
func (ConductivityReading) TableName() string     { return "tb_conductivity" }

func (r *PHReading) Base() *Reading               { return &r.Reading }
func (r *WaterLevelReading) Base() *Reading       { return &r.Reading }
func (r *WaterTemperatureReading) Base() *Reading { return &r.Reading }
func (r *IlluminanceReading) Base() *Reading      { return &r.Reading }
func (r *ConductivityReading) Base() *Reading     { return &r.Reading }

func (r *PHReading) SetValue(v float64)               { r.PHValue = v }
func (r *WaterLevelReading) SetValue(v float64)       { r.WaterLevel = v }
func (r *WaterTemperatureReading) SetValue(v float64) { r.Temperature = v }
func (r *IlluminanceReading) SetValue(v float64)      { r.Illuminance = v }
func (r *ConductivityReading) SetValue(v float64)     { r.Conductivity = v }

// NewMeasurement returns an empty row for the telemetry table of t.
// ok is false if t has no telemetry table.
func NewMeasurement(t SensorType) (m Measurement, ok bool) {
	switch t {
	case SensorPH:
		return &PHReading{}, true
	case SensorWaterLevel:
		return &WaterLevelReading{}, true
	case SensorWaterTemperature:
		return &WaterTemperatureReading{}, true
	case SensorIlluminance:
		return &IlluminanceReading{}, true
	case SensorConductivity:
		return &ConductivityReading{}, true
	default:
		return nil, false
	}
}

// All returns every model that AutoMigrate has to create.
func All() []any {
	return []any{
		&Setting{},
		&PHReading{},
		&WaterLevelReading{},
		&WaterTemperatureReading{},
		&IlluminanceReading{},
		&ConductivityReading{},
	}
}
