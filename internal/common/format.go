package common

import "fmt"

// String renders an order for demo-trace and log output.
func (o Order) String() string {
	return fmt.Sprintf(
		"Order{id=%d side=%v type=%v px=%d qty=%d ts=%.6f}",
		o.Id, o.Side, o.Type, o.LimitPrice, o.Qty, o.Ts,
	)
}

// String renders a fill for demo-trace and log output.
func (f Fill) String() string {
	return fmt.Sprintf(
		"Fill{taker=%d maker=%d side=%v px=%d qty=%d ts=%.6f}",
		f.TakerId, f.MakerId, f.Side, f.Price, f.Qty, f.Ts,
	)
}
