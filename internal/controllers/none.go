package controllers

// Constant sends the same vector every exchange.
type Constant struct {
	u Vector
}

func NewConstant(u Vector) *Constant {
	return &Constant{u: u}
}

func (c *Constant) Compute(joints []float64, t float64) Vector {
	return c.u
}
