package config

import "time"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Primary:    "dataset_part_3.csv",
			Secondary:  "dataset_part_2.csv",
			SitePrefix: "LaunchSite_",
			StrictJoin: false,
		},
		Server: ServerConfig{
			Host:          "127.0.0.1",
			Port:          8050,
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  30 * time.Second,
			ShutdownGrace: 5 * time.Second,
		},
		Dashboard: DashboardConfig{
			Title:        "SpaceX Launch Records Dashboard",
			SliderMin:    0,
			SliderMax:    10000,
			SliderStep:   1000,
			MarkInterval: 2000,
			ChartWidth:   800,
			ChartHeight:  480,
		},
		Storage: StorageConfig{
			DSN: ":memory:?_foreign_keys=on",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
		},
	}
}
