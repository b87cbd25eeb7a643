package model

// IndexStats summarizes the value-change region of a dump.
type IndexStats struct {
	Lines      int   `yaml:"lines"`
	Events     int   `yaml:"events"`
	Changes    int   `yaml:"changes"`
	Codes      int   `yaml:"codes"`
	Markers    int   `yaml:"markers"`
	Duplicates int   `yaml:"duplicates"`
	FirstTime  int64 `yaml:"first_time"`
	LastTime   int64 `yaml:"last_time"`
}

// DumpStats describes a built dump.
type DumpStats struct {
	Dialect    string     `yaml:"dialect"`
	Scopes     int        `yaml:"scopes"`
	Signals    int        `yaml:"signals"`
	Undeclared int        `yaml:"undeclared_codes"`
	Index      IndexStats `yaml:"index"`
}
