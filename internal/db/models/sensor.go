package models

// SensorType names a sensor or actuator of the rig.
type SensorType string

const (
	SensorCamera           SensorType = "camera"
	SensorFeed             SensorType = "feed"
	SensorAirPump          SensorType = "air_pump"
	SensorWaterPump        SensorType = "water_pump"
	SensorWaterLevel       SensorType = "water_level"
	SensorPH               SensorType = "ph"
	SensorConductivity     SensorType = "conductivity"
	SensorIlluminance      SensorType = "illuminance"
	SensorWaterTemperature SensorType = "water_temperature"
)

// SettingSensorTypes is the vocabulary of sensor types that may own settings.
var SettingSensorTypes = []SensorType{ //nolint:gochecknoglobals
	SensorCamera,
	SensorFeed,
	SensorAirPump,
	SensorWaterLevel,
	SensorPH,
	SensorConductivity,
	SensorIlluminance,
	SensorWaterTemperature,
}

// HasSettings reports whether t belongs to the settings vocabulary.
func (t SensorType) HasSettings() bool {
	for _, s := range SettingSensorTypes {
		if s == t {
			return true
		}
	}

	return false
}
