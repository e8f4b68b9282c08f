package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aquamon/aquamon/internal/config"
)

func TestCreate(t *testing.T) {
	db := config.DB{
		Host:     "db.local",
		Port:     3306,
		User:     "aquamon",
		Password: "secret",
		Name:     "rig",
		Path:     "./data/sensor_data.db",
	}

	tests := []struct {
		name     string
		engine   string
		extras   string
		expected string
	}{
		{
			name:     "mysql",
			engine:   config.EngineMySQL,
			extras:   "parseTime=true",
			expected: "aquamon:secret@tcp(db.local:3306)/rig?parseTime=true",
		},
		{
			name:     "postgres",
			engine:   config.EnginePostgres,
			extras:   "sslmode=disable",
			expected: "host=db.local port=3306 user=aquamon password=secret dbname=rig sslmode=disable",
		},
		{
			name:     "sqlite gets default busy timeout",
			engine:   config.EngineSQLite,
			expected: "./data/sensor_data.db?_pragma=busy_timeout(5000)",
		},
		{
			name:     "sqlite keeps own busy timeout",
			engine:   config.EngineSQLite,
			extras:   "_pragma=busy_timeout(100)",
			expected: "./data/sensor_data.db?_pragma=busy_timeout(100)",
		},
		{
			name:     "sqlite extras appended to busy timeout",
			engine:   config.EngineSQLite,
			extras:   "_pragma=foreign_keys(1)",
			expected: "./data/sensor_data.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		{
			name:     "empty engine falls back to sqlite",
			expected: "./data/sensor_data.db?_pragma=busy_timeout(5000)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Config{DB: db}
			cfg.DB.GormEngine = tt.engine
			cfg.DB.Extras = tt.extras

			assert.Equal(t, tt.expected, Create(&cfg))
		})
	}
}

func TestPostgresURL(t *testing.T) {
	cfg := config.Config{DB: config.DB{Host: "pg", Port: 5432, User: "u", Password: "p", Name: "rig"}}

	assert.Equal(t, "postgres://u:p@pg:5432/rig", PostgresURL(&cfg))
}
