package models

// All lists every model, parents before children.
func All() []interface{} {
	return []interface{}{
		&Group{},
		&Teacher{},
		&Student{},
		&Subject{},
		&Grade{},
		&StudentGroup{},
	}
}
