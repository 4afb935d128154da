package rule

type rangeRule struct {
	approver
	min float64
	max float64
}

func (r *rangeRule) Accepts(req Request) bool {
	return req.Amount >= r.min && req.Amount <= r.max
}
