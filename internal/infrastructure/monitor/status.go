package monitor

import "time"

type Status struct {
	Remote    bool      `json:"remote"`
	Backend   string    `json:"backend"`
	Cache     bool      `json:"cache"`
	CacheSize int       `json:"cache_size"`
	LastCheck time.Time `json:"last_check"`
}
