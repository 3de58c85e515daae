package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/kensaku/data/indices/bleve"
	}
	if cfg.Storage.HistoryPath == "" {
		cfg.Storage.HistoryPath = "/usr/local/var/kensaku/data/db/history.db"
	}
	// Single uppercase letters adjacent to the digits, matching the term
	// vocabulary the index was built with.
	if cfg.DateTerms.DayPrefix == "" {
		cfg.DateTerms.DayPrefix = "D"
	}
	if cfg.DateTerms.MonthPrefix == "" {
		cfg.DateTerms.MonthPrefix = "M"
	}
	if cfg.DateTerms.YearPrefix == "" {
		cfg.DateTerms.YearPrefix = "Y"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.TopKCandidates == 0 {
		cfg.Search.TopKCandidates = 100
	}
	if cfg.Categories == nil {
		cfg.Categories = map[string][]string{
			"text":         {"text/plain", "text/markdown", "text/html"},
			"document":     {"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
			"spreadsheet":  {"application/vnd.ms-excel", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/vnd.oasis.opendocument.spreadsheet"},
			"presentation": {"application/vnd.ms-powerpoint", "application/vnd.openxmlformats-officedocument.presentationml.presentation", "application/vnd.oasis.opendocument.presentation"},
		}
	}
}
