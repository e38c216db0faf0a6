package repository

// Models lists every table the service migrates.
func Models() []interface{} {
	return []interface{}{
		&Profile{},
		&Competition{},
		&EventAssignment{},
		&Scorecard{},
		&CachedData{},
	}
}
