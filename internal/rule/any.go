package rule

// anyRule accepts everything. Handlers placed after it are unreachable.
type anyRule struct {
	approver
}

func (r *anyRule) Accepts(Request) bool {
	return true
}
