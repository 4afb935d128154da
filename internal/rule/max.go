package rule

type maxRule struct {
	approver
	max float64
}

func (r *maxRule) Accepts(req Request) bool {
	return req.Amount <= r.max
}
