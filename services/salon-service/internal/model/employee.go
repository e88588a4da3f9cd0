package model

const EmployeeActive = "active"

// Employee is the part of the staff directory the scheduler reads.
type Employee struct {
	ID       int64
	BranchID int64
	Status   string
}

func (e Employee) Active() bool {
	return e.Status == EmployeeActive
}
