package storage

// RosterEmployee is one roster line as the pipeline sees it.
type RosterEmployee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ManagerContext is what the store/manager directory resolves a location code to.
type ManagerContext struct {
	ManagerID int64  `json:"manager_id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
}

type EmployeeAdmin struct {
	ID        int64  `json:"id"`
	ManagerID int64  `json:"manager_id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
}
